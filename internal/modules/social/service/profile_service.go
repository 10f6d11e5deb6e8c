package service

import (
	"context"
	"errors"
	"strings"

	"spectra-server/internal/model"
	"spectra-server/internal/modules/social/dto"
	platformservice "spectra-server/internal/platform/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50

	profileConcurrency = 8
)

// Profile 返回用户资料与统计。viewerID 为空表示匿名访问，
// 只有登录且查看他人资料时才附带关注状态。
func (s *Service) Profile(ctx context.Context, viewerID, userID string) (*dto.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.NewNotFoundError("user not found")
		}
		s.log.Error("load user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to load user profile", err)
	}
	return s.profileOf(ctx, viewerID, user)
}

// Search 按用户名或显示名搜索用户。limit 不在 [1, MaxSearchLimit] 内时取 DefaultSearchLimit。
func (s *Service) Search(ctx context.Context, viewerID, query string, limit int) ([]dto.UserProfile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, platformservice.NewValidationError("Search query cannot be empty")
	}
	if limit < 1 || limit > MaxSearchLimit {
		limit = DefaultSearchLimit
	}

	users, err := s.users.Search(ctx, query, limit)
	if err != nil {
		s.log.Error("search users failed", zap.String("query", query), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to search users", err)
	}

	profiles := make([]dto.UserProfile, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileConcurrency)
	for i := range users {
		g.Go(func() error {
			profile, err := s.profileOf(gctx, viewerID, &users[i])
			if err != nil {
				return err
			}
			profiles[i] = *profile
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Service) profileOf(ctx context.Context, viewerID string, user *model.User) (*dto.UserProfile, error) {
	stats, err := s.loadStats(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &dto.UserProfile{
		ID:           user.ID,
		UserName:     user.UserName,
		DisplayName:  user.DisplayName,
		Bio:          user.Bio,
		AvatarURL:    user.AvatarURL,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
		Stats:        *toStatsResponse(user.ID, stats),
		IsOwnProfile: viewerID != "" && viewerID == user.ID,
	}
	if viewerID != "" && viewerID != user.ID {
		following, err := s.store.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			s.log.Error("check follow failed", zap.String("user_id", viewerID), zap.String("target_id", user.ID), zap.Error(err))
			return nil, platformservice.WrapInternalError("failed to load user profile", err)
		}
		profile.IsFollowing = &following
	}
	return profile, nil
}
