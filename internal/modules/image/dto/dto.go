package dto

import "time"

// ImageItem 是带有所有者信息与社交计数的图片响应。
type ImageItem struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          *string   `json:"description"`
	ImageURL             string    `json:"imageUrl"`
	ThumbnailURL         *string   `json:"thumbnailUrl"`
	OriginalFileName     string    `json:"originalFileName"`
	FileSizeBytes        int64     `json:"fileSizeBytes"`
	ContentType          string    `json:"contentType"`
	Width                *int      `json:"width"`
	Height               *int      `json:"height"`
	Tags                 *string   `json:"tags"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	UserID               string    `json:"userId"`
	UserDisplayName      string    `json:"userDisplayName"`
	UserAvatarURL        *string   `json:"userAvatarUrl"`
	LikeCount            int64     `json:"likeCount"`
	CommentCount         int64     `json:"commentCount"`
	IsLikedByCurrentUser bool      `json:"isLikedByCurrentUser"`
	IsOwnedByCurrentUser bool      `json:"isOwnedByCurrentUser"`
}

// ImagePage 是分页列表的响应信封。
type ImagePage struct {
	Items           []ImageItem `json:"items"`
	TotalCount      int64       `json:"totalCount"`
	Page            int         `json:"page"`
	PageSize        int         `json:"pageSize"`
	TotalPages      int         `json:"totalPages"`
	HasNextPage     bool        `json:"hasNextPage"`
	HasPreviousPage bool        `json:"hasPreviousPage"`
}

// UploadImageRequest 是上传表单中除文件外的字段。
type UploadImageRequest struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"max=1000"`
	Tags        string `form:"tags" binding:"max=500"`
}

type UpdateImageRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	Tags        string `json:"tags" binding:"max=500"`
}

type PaginationRequest struct {
	Page     int
	PageSize int
}
