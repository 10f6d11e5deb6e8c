package events

import (
	"context"
	"time"
)

const (
	TypeImageUploaded = "image.uploaded"
	TypeImageDeleted  = "image.deleted"
	// TypeBlobOrphaned 表示 blob 与记录的两步写入出现缺口，需要外部清理。
	TypeBlobOrphaned = "blob.orphaned"
)

type Event struct {
	Type       string    `json:"type"`
	ImageID    string    `json:"imageId,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	Locator    string    `json:"locator,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher 投递图片生命周期事件。投递失败由调用方记录日志，不影响请求结果。
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher 在未启用消息队列时使用。
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
