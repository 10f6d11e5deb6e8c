package service

import (
	"context"

	"spectra-server/internal/events"
	"spectra-server/internal/modules/image/repo"
	"spectra-server/internal/storage"

	"go.uber.org/zap"
)

// Counters 提供单张图片的社交计数，由社交模块实现。
type Counters interface {
	LikeCount(ctx context.Context, imageID string) (int64, error)
	CommentCount(ctx context.Context, imageID string) (int64, error)
	IsLikedBy(ctx context.Context, viewerID, imageID string) (bool, error)
}

type Service struct {
	imageStore repo.ImageStore
	counters   Counters
	blobs      storage.BlobStore
	publisher  events.Publisher
	log        *zap.Logger
}

func New(imageStore repo.ImageStore, counters Counters, blobs storage.BlobStore, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		imageStore: imageStore,
		counters:   counters,
		blobs:      blobs,
		publisher:  publisher,
		log:        log,
	}
}

// Exists 供社交模块判断图片是否存在。
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.imageStore.Exists(ctx, id)
}
