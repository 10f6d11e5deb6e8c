package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"spectra-server/internal/config"

	"github.com/google/uuid"
)

// BlobStore 保存已校验的图片内容并返回可公开访问的定位符。
type BlobStore interface {
	// Put 以新生成的唯一名称写入 data，返回定位符。
	Put(ctx context.Context, data []byte, ext, contentType string) (string, error)
	// Delete 删除定位符对应的对象；对象不存在不算错误。
	Delete(ctx context.Context, locator string) error
}

var ErrInvalidLocator = errors.New("invalid blob locator")

// NewObjectName 生成 {uuid}{ext} 形式的对象名。
func NewObjectName(ext string) string {
	return uuid.NewString() + strings.ToLower(ext)
}

// JoinLocator 将基础地址与对象名拼接为定位符。
func JoinLocator(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}

// ObjectNameFromLocator 取定位符 URL 路径的最后一段作为对象名。
func ObjectNameFromLocator(locator string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(locator))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLocator, err)
	}
	name := path.Base(u.Path)
	switch name {
	case "", ".", "/", "..":
		return "", ErrInvalidLocator
	}
	if strings.ContainsAny(name, `\`) {
		return "", ErrInvalidLocator
	}
	return name, nil
}

// New 根据 upload.driver 创建 blob 存储，未知驱动返回错误。
func New(ctx context.Context, cfg config.Config) (BlobStore, error) {
	var (
		store BlobStore
		err   error
	)
	switch cfg.Upload.Driver {
	case "", "local":
		store, err = NewLocalStore(cfg.Upload.Path, localBaseURL(cfg.Upload))
	case "s3":
		store, err = NewS3Store(ctx, cfg.S3, cfg.Upload.BaseURL)
	case "minio":
		store, err = NewMinIOStore(ctx, cfg.MinIO, cfg.Upload.BaseURL)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Upload.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(store), nil
}

func localBaseURL(cfg config.UploadConfig) string {
	prefix := strings.Trim(cfg.URLPrefix, "/")
	return strings.TrimRight(cfg.BaseURL, "/") + "/" + prefix
}

// objectBaseURL 推导对象存储的公开地址：优先使用配置，其次 path-style 的 endpoint/bucket。
func objectBaseURL(configured, endpoint, bucket string, useSSL bool) string {
	if configured != "" {
		return configured
	}
	if !strings.Contains(endpoint, "://") {
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		endpoint = scheme + endpoint
	}
	return JoinLocator(endpoint, bucket)
}
