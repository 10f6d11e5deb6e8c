package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 是图片所有者的最小身份投影，注册与登录不在本服务内。
type User struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	UserName    string  `json:"userName" gorm:"size:256;index"`
	DisplayName *string `json:"displayName" gorm:"size:100"`
	AvatarURL   *string `json:"avatarUrl" gorm:"size:500"`
	Bio         *string `json:"bio" gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Images      []Image `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
