package repo

import (
	"context"

	"spectra-server/internal/model"

	"gorm.io/gorm"
)

// ListImagesParams 描述一次分页列表查询。OwnerID 与 FollowerID 为空表示不过滤。
type ListImagesParams struct {
	OwnerID    *string
	FollowerID *string
	Page       int
	PageSize   int
}

// ImageStore 持久化图片元数据。列表与 *WithOwner 查询返回的记录已附加所有者。
// 记录不存在时返回 gorm.ErrRecordNotFound。
type ImageStore interface {
	Create(ctx context.Context, image *model.Image) error
	Update(ctx context.Context, image *model.Image) error
	Delete(ctx context.Context, image *model.Image) error
	FindByID(ctx context.Context, id string) (*model.Image, error)
	FindByIDWithOwner(ctx context.Context, id string) (*model.Image, error)
	ListImages(ctx context.Context, params ListImagesParams) ([]model.Image, int64, error)
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]model.Image, int64, error)
	ListFeed(ctx context.Context, viewerID string, page, pageSize int) ([]model.Image, int64, error)
	ListAll(ctx context.Context, page, pageSize int) ([]model.Image, int64, error)
	Exists(ctx context.Context, id string) (bool, error)
}

func NewImageRepository(db *gorm.DB) ImageStore {
	return &ImageRepository{db: db}
}
