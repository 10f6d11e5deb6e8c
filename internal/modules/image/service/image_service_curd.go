package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"spectra-server/internal/events"
	"spectra-server/internal/metrics"
	"spectra-server/internal/model"
	"spectra-server/internal/modules/image/dto"
	platformservice "spectra-server/internal/platform/service"
	"spectra-server/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
	maxTagsLength        = 500

	deniedMessage = "image not found or not authorized"
)

// UploadInput 是一次上传请求。Content 只会被读取一次。
type UploadInput struct {
	OwnerID     string
	Title       string
	Description string
	Tags        string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UpdateInput 是元数据编辑请求，空串表示清空可选字段。
type UpdateInput struct {
	Title       string
	Description string
	Tags        string
}

// Upload 依次执行内容校验、写入 blob、写入记录，返回带所有者信息的图片。
func (s *Service) Upload(ctx context.Context, in UploadInput) (*dto.ImageItem, error) {
	if err := validateMetadata(in.Title, in.Description, in.Tags); err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	info, err := utils.ValidateImageUpload(in.Content, in.FileName, in.ContentType, in.Size)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		var verr *utils.ImageValidationError
		if errors.As(err, &verr) {
			metrics.ValidationRejectionsTotal.WithLabelValues(verr.Reason).Inc()
			s.log.Info("upload rejected",
				zap.String("user_id", in.OwnerID),
				zap.String("filename", in.FileName),
				zap.Int64("size", in.Size),
				zap.String("reason", verr.Reason),
			)
			return nil, platformservice.NewValidationError(verr.Message)
		}
		return nil, platformservice.WrapInternalError("failed to read uploaded file", err)
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	size := int64(len(info.Data))
	locator, err := s.blobs.Put(ctx, info.Data, info.Ext, contentType)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		s.logStorageFailure("store blob failed", in, size, "", err)
		return nil, platformservice.WrapInternalError("failed to store image", err)
	}

	width, height := info.Width, info.Height
	image := &model.Image{
		Title:            strings.TrimSpace(in.Title),
		Description:      optional(in.Description),
		ImageURL:         locator,
		OriginalFileName: in.FileName,
		FileSizeBytes:    size,
		ContentType:      contentType,
		Width:            &width,
		Height:           &height,
		Tags:             optional(in.Tags),
		UserID:           in.OwnerID,
	}
	if err := s.imageStore.Create(ctx, image); err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		s.logStorageFailure("create image record failed", in, size, locator, err)
		// 记录写入失败时 blob 已落盘，交给外部清理。
		s.publish(ctx, events.Event{
			Type:    events.TypeBlobOrphaned,
			UserID:  in.OwnerID,
			Locator: locator,
			Reason:  "record_create_failed",
		})
		return nil, platformservice.WrapInternalError("failed to save image", err)
	}

	created, err := s.imageStore.FindByIDWithOwner(ctx, image.ID)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		s.logStorageFailure("reload image failed", in, size, locator, err)
		return nil, platformservice.WrapInternalError("failed to load image", err)
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	s.publish(ctx, events.Event{
		Type:    events.TypeImageUploaded,
		ImageID: created.ID,
		UserID:  created.UserID,
		Locator: created.ImageURL,
	})

	// 新图片没有点赞与评论，跳过计数查询。
	item := toItem(created, in.OwnerID)
	return &item, nil
}

// Update 覆盖标题、描述与标签。图片不存在与非所有者返回同一个错误。
func (s *Service) Update(ctx context.Context, requesterID, imageID string, in UpdateInput) (*dto.ImageItem, error) {
	if err := validateMetadata(in.Title, in.Description, in.Tags); err != nil {
		return nil, err
	}

	image, err := s.findOwned(ctx, requesterID, imageID, "update")
	if err != nil {
		return nil, err
	}

	image.Title = strings.TrimSpace(in.Title)
	image.Description = optional(in.Description)
	image.Tags = optional(in.Tags)
	if err := s.imageStore.Update(ctx, image); err != nil {
		s.log.Error("update image failed", zap.String("user_id", requesterID), zap.String("image_id", imageID), zap.Error(err))
		return nil, platformservice.WrapInternalError("failed to update image", err)
	}

	updated, err := s.imageStore.FindByIDWithOwner(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.NewNotFoundError(deniedMessage)
		}
		return nil, platformservice.WrapInternalError("failed to load image", err)
	}
	return s.enrich(ctx, updated, requesterID)
}

// Delete 先尽力删除 blob，再删除记录。blob 删除失败不阻止记录删除。
func (s *Service) Delete(ctx context.Context, requesterID, imageID string) error {
	image, err := s.findOwned(ctx, requesterID, imageID, "delete")
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, image.ImageURL); err != nil {
		s.log.Error("delete blob failed",
			zap.String("user_id", requesterID),
			zap.String("image_id", imageID),
			zap.String("locator", image.ImageURL),
			zap.Error(err),
		)
		s.publish(ctx, events.Event{
			Type:    events.TypeBlobOrphaned,
			ImageID: image.ID,
			UserID:  image.UserID,
			Locator: image.ImageURL,
			Reason:  "blob_delete_failed",
		})
	}

	if err := s.imageStore.Delete(ctx, image); err != nil {
		s.log.Error("delete image record failed",
			zap.String("user_id", requesterID),
			zap.String("image_id", imageID),
			zap.String("locator", image.ImageURL),
			zap.Error(err),
		)
		return platformservice.WrapInternalError("failed to delete image", err)
	}

	s.publish(ctx, events.Event{
		Type:    events.TypeImageDeleted,
		ImageID: image.ID,
		UserID:  image.UserID,
		Locator: image.ImageURL,
	})
	return nil
}

// findOwned 读取图片并校验所有者。对外只有 deniedMessage，日志区分 not_found 与 not_owner。
func (s *Service) findOwned(ctx context.Context, requesterID, imageID, op string) (*model.Image, error) {
	image, err := s.imageStore.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info("image access denied", zap.String("op", op), zap.String("tag", "not_found"),
				zap.String("user_id", requesterID), zap.String("image_id", imageID))
			return nil, platformservice.NewNotFoundError(deniedMessage)
		}
		return nil, platformservice.WrapInternalError("failed to load image", err)
	}
	if requesterID == "" || image.UserID != requesterID {
		s.log.Info("image access denied", zap.String("op", op), zap.String("tag", "not_owner"),
			zap.String("user_id", requesterID), zap.String("image_id", imageID))
		return nil, platformservice.NewNotFoundError(deniedMessage)
	}
	return image, nil
}

func (s *Service) logStorageFailure(msg string, in UploadInput, size int64, locator string, err error) {
	s.log.Error(msg,
		zap.String("user_id", in.OwnerID),
		zap.String("filename", in.FileName),
		zap.Int64("size", size),
		zap.String("locator", locator),
		zap.Error(err),
	)
}

// publish 投递事件，失败只记日志。
func (s *Service) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish event failed", zap.String("type", event.Type), zap.String("locator", event.Locator), zap.Error(err))
	}
}

func validateMetadata(title, description, tags string) error {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return platformservice.NewValidationError("Title is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return platformservice.NewValidationError("Title cannot exceed 200 characters")
	case utf8.RuneCountInString(description) > maxDescriptionLength:
		return platformservice.NewValidationError("Description cannot exceed 1000 characters")
	case utf8.RuneCountInString(tags) > maxTagsLength:
		return platformservice.NewValidationError("Tags cannot exceed 500 characters")
	}
	return nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
