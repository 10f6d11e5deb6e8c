package service

import (
	"context"
	"errors"
	"time"

	"spectra-server/internal/metrics"
	"spectra-server/internal/model"
	"spectra-server/internal/modules/image/dto"
	platformservice "spectra-server/internal/platform/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50

	unknownUserName = "Unknown User"

	// 单页富化的并发上限。
	enrichConcurrency = 8
)

// NormalizePagination 将 page 下限设为 1，pageSize 限制在 [1, MaxPageSize]。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	pageSize = max(1, min(pageSize, MaxPageSize))
	return page, pageSize
}

// Get 返回单张图片。viewerID 为空表示匿名访问。
func (s *Service) Get(ctx context.Context, viewerID, imageID string) (*dto.ImageItem, error) {
	image, err := s.imageStore.FindByIDWithOwner(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.NewNotFoundError("image not found")
		}
		s.log.Error("load image failed", zap.String("image_id", imageID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to load image", err)
	}
	return s.enrich(ctx, image, viewerID)
}

func (s *Service) ListByOwner(ctx context.Context, viewerID, ownerID string, req dto.PaginationRequest) (*dto.ImagePage, error) {
	page, pageSize := NormalizePagination(req.Page, req.PageSize)
	images, total, err := s.imageStore.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		s.log.Error("list owner images failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to list images", err)
	}
	return s.assemble(ctx, "owner", images, total, page, pageSize, viewerID)
}

// ListFeed 返回 viewer 关注的用户发布的图片。
func (s *Service) ListFeed(ctx context.Context, viewerID string, req dto.PaginationRequest) (*dto.ImagePage, error) {
	if viewerID == "" {
		return nil, platformservice.NewUnauthorizedError("authentication required")
	}
	page, pageSize := NormalizePagination(req.Page, req.PageSize)
	images, total, err := s.imageStore.ListFeed(ctx, viewerID, page, pageSize)
	if err != nil {
		s.log.Error("list feed failed", zap.String("user_id", viewerID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to list feed", err)
	}
	return s.assemble(ctx, "feed", images, total, page, pageSize, viewerID)
}

func (s *Service) ListAll(ctx context.Context, viewerID string, req dto.PaginationRequest) (*dto.ImagePage, error) {
	page, pageSize := NormalizePagination(req.Page, req.PageSize)
	images, total, err := s.imageStore.ListAll(ctx, page, pageSize)
	if err != nil {
		s.log.Error("list images failed", zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to list images", err)
	}
	return s.assemble(ctx, "all", images, total, page, pageSize, viewerID)
}

// assemble 并发富化一页图片，保持原有顺序。
func (s *Service) assemble(ctx context.Context, mode string, images []model.Image, total int64, page, pageSize int, viewerID string) (*dto.ImagePage, error) {
	start := time.Now()
	defer func() {
		metrics.FeedEnrichmentSeconds.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	items := make([]dto.ImageItem, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i := range images {
		g.Go(func() error {
			item, err := s.enrich(gctx, &images[i], viewerID)
			if err != nil {
				return err
			}
			items[i] = *item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewPage(items, total, page, pageSize), nil
}

// NewPage 根据总数计算分页信息，pageSize 必须大于 0。
func NewPage(items []dto.ImageItem, total int64, page, pageSize int) *dto.ImagePage {
	if items == nil {
		items = []dto.ImageItem{}
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &dto.ImagePage{
		Items:           items,
		TotalCount:      total,
		Page:            page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// enrich 附加社交计数与 viewer 相关标记。
func (s *Service) enrich(ctx context.Context, image *model.Image, viewerID string) (*dto.ImageItem, error) {
	item := toItem(image, viewerID)

	var err error
	if item.LikeCount, err = s.counters.LikeCount(ctx, image.ID); err != nil {
		return nil, s.counterFailure(image.ID, err)
	}
	if item.CommentCount, err = s.counters.CommentCount(ctx, image.ID); err != nil {
		return nil, s.counterFailure(image.ID, err)
	}
	if viewerID != "" {
		if item.IsLikedByCurrentUser, err = s.counters.IsLikedBy(ctx, viewerID, image.ID); err != nil {
			return nil, s.counterFailure(image.ID, err)
		}
	}
	return &item, nil
}

func (s *Service) counterFailure(imageID string, err error) error {
	s.log.Error("load image counters failed", zap.String("image_id", imageID), zap.Error(err))
	return platformservice.WrapInternalError("failed to load image counters", err)
}

// toItem 复制静态字段，计数为零。
func toItem(image *model.Image, viewerID string) dto.ImageItem {
	item := dto.ImageItem{
		ID:                   image.ID,
		Title:                image.Title,
		Description:          image.Description,
		ImageURL:             image.ImageURL,
		ThumbnailURL:         image.ThumbnailURL,
		OriginalFileName:     image.OriginalFileName,
		FileSizeBytes:        image.FileSizeBytes,
		ContentType:          image.ContentType,
		Width:                image.Width,
		Height:               image.Height,
		Tags:                 image.Tags,
		CreatedAt:            image.CreatedAt,
		UpdatedAt:            image.UpdatedAt,
		UserID:               image.UserID,
		UserDisplayName:      unknownUserName,
		IsOwnedByCurrentUser: viewerID != "" && viewerID == image.UserID,
	}
	if image.User != nil {
		if image.User.DisplayName != nil && *image.User.DisplayName != "" {
			item.UserDisplayName = *image.User.DisplayName
		}
		item.UserAvatarURL = image.User.AvatarURL
	}
	return item
}
