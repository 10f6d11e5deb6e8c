package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Image struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	Title            string    `json:"title" gorm:"size:200;not null"`
	Description      *string   `json:"description" gorm:"size:1000"`
	ImageURL         string    `json:"imageUrl" gorm:"size:1000;not null"`
	ThumbnailURL     *string   `json:"thumbnailUrl" gorm:"size:1000"`
	OriginalFileName string    `json:"originalFileName" gorm:"size:255;not null"`
	FileSizeBytes    int64     `json:"fileSizeBytes" gorm:"not null"`
	ContentType      string    `json:"contentType" gorm:"size:100;not null"`
	Width            *int      `json:"width"`
	Height           *int      `json:"height"`
	Tags             *string   `json:"tags" gorm:"size:500"`
	UserID           string    `json:"userId" gorm:"size:36;not null;index"`
	CreatedAt        time.Time `json:"createdAt" gorm:"not null;index"`
	UpdatedAt        time.Time `json:"updatedAt" gorm:"not null"`
	User             *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
