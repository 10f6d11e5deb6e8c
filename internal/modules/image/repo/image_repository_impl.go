package repo

import (
	"context"
	"time"

	"spectra-server/internal/model"

	"gorm.io/gorm"
)

type ImageRepository struct {
	db *gorm.DB
}

func (r *ImageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *ImageRepository) Update(ctx context.Context, image *model.Image) error {
	image.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Model(image).
		Select("title", "description", "tags", "updated_at").
		Updates(image).Error
}

func (r *ImageRepository) Delete(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", image.ID).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("image_id = ?", image.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(image).Error
	})
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (*model.Image, error) {
	var image model.Image
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepository) FindByIDWithOwner(ctx context.Context, id string) (*model.Image, error) {
	image, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	images := []model.Image{*image}
	if err := r.attachOwners(ctx, images); err != nil {
		return nil, err
	}
	return &images[0], nil
}

// ListImages 先统计再分页，两次查询使用同一组过滤条件。
func (r *ImageRepository) ListImages(ctx context.Context, params ListImagesParams) ([]model.Image, int64, error) {
	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&model.Image{})
		if params.OwnerID != nil {
			query = query.Where("images.user_id = ?", *params.OwnerID)
		}
		if params.FollowerID != nil {
			query = query.Where(
				"EXISTS (SELECT 1 FROM follows WHERE follows.follower_id = ? AND follows.following_id = images.user_id)",
				*params.FollowerID,
			)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Image{}, 0, nil
	}
	// 页码越过末页时直接返回空页，避免 offset 乘法溢出。
	if params.Page < 1 || params.PageSize < 1 {
		return []model.Image{}, total, nil
	}
	pages := (total + int64(params.PageSize) - 1) / int64(params.PageSize)
	if int64(params.Page-1) >= pages {
		return []model.Image{}, total, nil
	}

	var images []model.Image
	offset := (params.Page - 1) * params.PageSize
	if err := base().
		Order("images.created_at desc").
		Order("images.id desc").
		Offset(offset).
		Limit(params.PageSize).
		Find(&images).Error; err != nil {
		return nil, 0, err
	}

	if err := r.attachOwners(ctx, images); err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

func (r *ImageRepository) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]model.Image, int64, error) {
	return r.ListImages(ctx, ListImagesParams{OwnerID: &ownerID, Page: page, PageSize: pageSize})
}

func (r *ImageRepository) ListFeed(ctx context.Context, viewerID string, page, pageSize int) ([]model.Image, int64, error) {
	return r.ListImages(ctx, ListImagesParams{FollowerID: &viewerID, Page: page, PageSize: pageSize})
}

func (r *ImageRepository) ListAll(ctx context.Context, page, pageSize int) ([]model.Image, int64, error) {
	return r.ListImages(ctx, ListImagesParams{Page: page, PageSize: pageSize})
}

func (r *ImageRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Image{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// attachOwners 用一次 IN 查询为记录附加所有者，找不到的所有者保持为 nil。
func (r *ImageRepository) attachOwners(ctx context.Context, images []model.Image) error {
	if len(images) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(images))
	ids := make([]string, 0, len(images))
	for _, img := range images {
		if _, ok := seen[img.UserID]; ok {
			continue
		}
		seen[img.UserID] = struct{}{}
		ids = append(ids, img.UserID)
	}

	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return err
	}
	byID := make(map[string]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range images {
		images[i].User = byID[images[i].UserID]
	}
	return nil
}
