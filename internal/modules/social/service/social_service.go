package service

import (
	"context"

	"spectra-server/internal/cache"
	"spectra-server/internal/modules/social/dto"
	"spectra-server/internal/modules/social/repo"
	platformservice "spectra-server/internal/platform/service"

	"go.uber.org/zap"
)

// Like 为 viewer 点赞图片。重复点赞不报错，返回当前状态。
func (s *Service) Like(ctx context.Context, viewerID, imageID string) (*dto.LikeState, error) {
	if err := s.requireExists(ctx, s.images, imageID, "image"); err != nil {
		return nil, err
	}
	created, err := s.store.CreateLike(ctx, viewerID, imageID)
	if err != nil {
		s.log.Error("create like failed", zap.String("user_id", viewerID), zap.String("image_id", imageID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to like image", err)
	}
	if !created {
		s.log.Debug("like already exists", zap.String("user_id", viewerID), zap.String("image_id", imageID))
	}
	return s.likeState(ctx, imageID, true)
}

// Unlike 取消点赞。没有点赞记录时同样返回当前状态。
func (s *Service) Unlike(ctx context.Context, viewerID, imageID string) (*dto.LikeState, error) {
	if err := s.requireExists(ctx, s.images, imageID, "image"); err != nil {
		return nil, err
	}
	if _, err := s.store.DeleteLike(ctx, viewerID, imageID); err != nil {
		s.log.Error("delete like failed", zap.String("user_id", viewerID), zap.String("image_id", imageID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to unlike image", err)
	}
	return s.likeState(ctx, imageID, false)
}

func (s *Service) likeState(ctx context.Context, imageID string, liked bool) (*dto.LikeState, error) {
	count, err := s.store.LikeCount(ctx, imageID)
	if err != nil {
		return nil, platformservice.WrapInternalError("failed to load like count", err)
	}
	return &dto.LikeState{LikeCount: count, IsLikedByCurrentUser: liked}, nil
}

// Follow 建立关注关系。自我关注不做校验。
func (s *Service) Follow(ctx context.Context, followerID, followingID string) (*dto.FollowState, error) {
	if err := s.requireExists(ctx, s.users, followingID, "user"); err != nil {
		return nil, err
	}
	if _, err := s.store.CreateFollow(ctx, followerID, followingID); err != nil {
		s.log.Error("create follow failed", zap.String("follower_id", followerID), zap.String("following_id", followingID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to follow user", err)
	}
	s.invalidateStats(ctx, followerID, followingID)
	return &dto.FollowState{Following: true}, nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) (*dto.FollowState, error) {
	if err := s.requireExists(ctx, s.users, followingID, "user"); err != nil {
		return nil, err
	}
	if _, err := s.store.DeleteFollow(ctx, followerID, followingID); err != nil {
		s.log.Error("delete follow failed", zap.String("follower_id", followerID), zap.String("following_id", followingID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to unfollow user", err)
	}
	s.invalidateStats(ctx, followerID, followingID)
	return &dto.FollowState{Following: false}, nil
}

// Stats 返回用户社交统计，启用 Redis 时读穿缓存。
func (s *Service) Stats(ctx context.Context, userID string) (*dto.UserStatsResponse, error) {
	if err := s.requireExists(ctx, s.users, userID, "user"); err != nil {
		return nil, err
	}
	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toStatsResponse(userID, stats), nil
}

// loadStats 优先读缓存，未命中时计算并回写。缓存读写失败只记日志。
func (s *Service) loadStats(ctx context.Context, userID string) (*repo.UserStats, error) {
	key := cache.Key(s.cachePrefix, "social", "stats", userID)
	if s.cache != nil {
		var cached repo.UserStats
		hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err != nil {
			s.log.Warn("read stats cache failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	stats, err := s.store.UserStats(ctx, userID)
	if err != nil {
		s.log.Error("load user stats failed", zap.String("user_id", userID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to load user stats", err)
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, stats, statsCacheTTL); err != nil {
			s.log.Warn("write stats cache failed", zap.String("key", key), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *Service) invalidateStats(ctx context.Context, userIDs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, cache.Key(s.cachePrefix, "social", "stats", id))
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn("invalidate stats cache failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// requireExists 将缺失的目标转换为 not_found，entity 用于拼接消息。
func (s *Service) requireExists(ctx context.Context, lookup Lookup, id, entity string) error {
	ok, err := lookup.Exists(ctx, id)
	if err != nil {
		return platformservice.WrapInternalError("failed to look up "+entity, err)
	}
	if !ok {
		return platformservice.NewNotFoundError(entity + " not found")
	}
	return nil
}

func toStatsResponse(userID string, stats *repo.UserStats) *dto.UserStatsResponse {
	return &dto.UserStatsResponse{
		UserID:                userID,
		ImageCount:            stats.ImageCount,
		FollowersCount:        stats.FollowersCount,
		FollowingCount:        stats.FollowingCount,
		TotalLikesReceived:    stats.TotalLikesReceived,
		TotalCommentsReceived: stats.TotalCommentsReceived,
	}
}
