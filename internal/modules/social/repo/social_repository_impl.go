package repo

import (
	"context"

	"spectra-server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SocialRepository struct {
	db *gorm.DB
}

func (r *SocialRepository) LikeCount(ctx context.Context, imageID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("image_id = ?", imageID).Count(&count).Error
	return count, err
}

func (r *SocialRepository) CommentCount(ctx context.Context, imageID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("image_id = ?", imageID).Count(&count).Error
	return count, err
}

func (r *SocialRepository) IsLikedBy(ctx context.Context, viewerID, imageID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND image_id = ?", viewerID, imageID).
		Count(&count).Error
	return count > 0, err
}

// CreateLike 依赖 (user_id, image_id) 唯一索引，并发重复点赞被视为无操作。
func (r *SocialRepository) CreateLike(ctx context.Context, userID, imageID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Like{UserID: userID, ImageID: imageID})
	return res.RowsAffected > 0, res.Error
}

func (r *SocialRepository) DeleteLike(ctx context.Context, userID, imageID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Delete(&model.Like{})
	return res.RowsAffected > 0, res.Error
}

func (r *SocialRepository) CreateFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Follow{FollowerID: followerID, FollowingID: followingID})
	return res.RowsAffected > 0, res.Error
}

func (r *SocialRepository) DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *SocialRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *SocialRepository) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	db := r.db.WithContext(ctx)
	var stats UserStats

	if err := db.Model(&model.Image{}).Where("user_id = ?", userID).Count(&stats.ImageCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&stats.FollowersCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&stats.FollowingCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Like{}).
		Joins("JOIN images ON images.id = likes.image_id").
		Where("images.user_id = ?", userID).
		Count(&stats.TotalLikesReceived).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Comment{}).
		Joins("JOIN images ON images.id = comments.image_id").
		Where("images.user_id = ?", userID).
		Count(&stats.TotalCommentsReceived).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
