package repo

import (
	"context"

	"gorm.io/gorm"
)

// CounterStore 计算单张图片的社交计数，均为时间点快照。
type CounterStore interface {
	LikeCount(ctx context.Context, imageID string) (int64, error)
	CommentCount(ctx context.Context, imageID string) (int64, error)
	IsLikedBy(ctx context.Context, viewerID, imageID string) (bool, error)
}

// UserStats 汇总一个用户的社交数据。
type UserStats struct {
	ImageCount            int64 `json:"imageCount"`
	FollowersCount        int64 `json:"followersCount"`
	FollowingCount        int64 `json:"followingCount"`
	TotalLikesReceived    int64 `json:"totalLikesReceived"`
	TotalCommentsReceived int64 `json:"totalCommentsReceived"`
}

// SocialStore 维护点赞与关注关系。创建类操作幂等，返回是否实际新增。
type SocialStore interface {
	CounterStore
	CreateLike(ctx context.Context, userID, imageID string) (bool, error)
	DeleteLike(ctx context.Context, userID, imageID string) (bool, error)
	CreateFollow(ctx context.Context, followerID, followingID string) (bool, error)
	DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	UserStats(ctx context.Context, userID string) (*UserStats, error)
}

func NewSocialRepository(db *gorm.DB) SocialStore {
	return &SocialRepository{db: db}
}
