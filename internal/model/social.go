package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like 每个 (用户, 图片) 至多一条。
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_like_user_image"`
	ImageID   string    `json:"imageId" gorm:"size:36;not null;uniqueIndex:idx_like_user_image;index"`
	CreatedAt time.Time `json:"createdAt"`
	User      *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Image     *Image    `gorm:"foreignKey:ImageID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Content   string    `json:"content" gorm:"size:500;not null"`
	UserID    string    `json:"userId" gorm:"size:36;not null;index"`
	ImageID   string    `json:"imageId" gorm:"size:36;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Image     *Image    `gorm:"foreignKey:ImageID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Follow 表示 FollowerID 关注了 FollowingID。
type Follow struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	FollowerID  string    `json:"followerId" gorm:"size:36;not null;uniqueIndex:idx_follow_pair"`
	FollowingID string    `json:"followingId" gorm:"size:36;not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt   time.Time `json:"createdAt"`
	Follower    *User     `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Following   *User     `gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
