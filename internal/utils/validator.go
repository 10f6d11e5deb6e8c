package utils

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"slices"
	"strings"

	_ "image/gif"  // 注册 gif 解码器
	_ "image/jpeg" // 注册 jpeg 解码器
	_ "image/png"  // 注册 png 解码器

	_ "golang.org/x/image/webp" // 注册 webp 解码器
)

// MaxImageUploadBytes 单张图片的大小上限（5MB）。
const MaxImageUploadBytes int64 = 5 * 1024 * 1024

// FileTooLargeMessage 是超出 MaxImageUploadBytes 时返回给调用方的提示。
var FileTooLargeMessage = fmt.Sprintf("File size cannot exceed %dMB (%d bytes)", MaxImageUploadBytes/(1024*1024), MaxImageUploadBytes)

var (
	allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	allowedImageMimeTypes  = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	allowedDecodedFormats  = map[string]bool{"jpeg": true, "png": true, "gif": true, "webp": true}
)

// 校验失败原因，同时用作指标标签。
const (
	RejectFileRequired         = "file_required"
	RejectTooLarge             = "too_large"
	RejectUnsupportedExtension = "unsupported_extension"
	RejectUnsupportedMime      = "unsupported_mime"
	RejectInvalidImage         = "invalid_image"
)

// ImageValidationError 描述一次被拒绝的上传。Message 可直接返回给调用方。
type ImageValidationError struct {
	Reason  string
	Message string
}

func (e *ImageValidationError) Error() string {
	return e.Message
}

// ImageInfo 是通过校验的上传内容，所有字段都来自同一次读取。
type ImageInfo struct {
	Data   []byte
	Ext    string
	Format string
	Width  int
	Height int
}

// ValidateImageUpload 按顺序校验上传内容并解析尺寸，任一步失败即返回。
//
// reader 只会被读取一次：内容先整体缓冲到内存（最多 MaxImageUploadBytes+1 字节），
// 解码与尺寸读取都基于这份缓冲完成。
func ValidateImageUpload(reader io.Reader, filename, contentType string, size int64) (*ImageInfo, error) {
	if reader == nil || size <= 0 {
		return nil, rejectFileRequired()
	}
	if size > MaxImageUploadBytes {
		return nil, rejectTooLarge()
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(allowedImageExtensions, ext) {
		return nil, &ImageValidationError{
			Reason:  RejectUnsupportedExtension,
			Message: "File type not supported. Allowed types: " + strings.Join(allowedImageExtensions, ", "),
		}
	}

	mime := strings.ToLower(strings.TrimSpace(contentType))
	if !slices.Contains(allowedImageMimeTypes, mime) {
		return nil, &ImageValidationError{
			Reason:  RejectUnsupportedMime,
			Message: "MIME type not supported. Allowed types: " + strings.Join(allowedImageMimeTypes, ", "),
		}
	}

	data, err := io.ReadAll(io.LimitReader(reader, MaxImageUploadBytes+1))
	if err != nil {
		return nil, invalidImage()
	}
	if len(data) == 0 {
		return nil, rejectFileRequired()
	}
	// 声明大小可能与实际内容不符，以实际读取为准。
	if int64(len(data)) > MaxImageUploadBytes {
		return nil, rejectTooLarge()
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil || img == nil || !allowedDecodedFormats[format] {
		return nil, invalidImage()
	}
	bounds := img.Bounds()

	return &ImageInfo{
		Data:   data,
		Ext:    ext,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

func rejectFileRequired() error {
	return &ImageValidationError{Reason: RejectFileRequired, Message: "File is required"}
}

func rejectTooLarge() error {
	return &ImageValidationError{
		Reason:  RejectTooLarge,
		Message: FileTooLargeMessage,
	}
}

func invalidImage() error {
	return &ImageValidationError{Reason: RejectInvalidImage, Message: "File is not a valid image or is corrupted"}
}
