package testutils

import (
	"testing"
	"time"

	"spectra-server/internal/model"

	"gorm.io/gorm"
)

// CreateUser 插入一个带显示名的用户。
func CreateUser(t *testing.T, gdb *gorm.DB, userName string) model.User {
	t.Helper()
	display := userName
	u := model.User{UserName: userName, DisplayName: &display}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateImage 直接插入一条图片记录，createdAt 为零值时使用当前时间。
func CreateImage(t *testing.T, gdb *gorm.DB, ownerID, title string, createdAt time.Time) model.Image {
	t.Helper()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	w, h := 10, 10
	img := model.Image{
		Title:            title,
		ImageURL:         "http://localhost:8080/uploads/images/" + title + ".png",
		OriginalFileName: title + ".png",
		FileSizeBytes:    123,
		ContentType:      "image/png",
		Width:            &w,
		Height:           &h,
		UserID:           ownerID,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	if err := gdb.Create(&img).Error; err != nil {
		t.Fatalf("create image: %v", err)
	}
	return img
}

// Follow 让 followerID 关注 followingID。
func Follow(t *testing.T, gdb *gorm.DB, followerID, followingID string) {
	t.Helper()
	if err := gdb.Create(&model.Follow{FollowerID: followerID, FollowingID: followingID}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}
}

// Like 让 userID 点赞 imageID。
func Like(t *testing.T, gdb *gorm.DB, userID, imageID string) {
	t.Helper()
	if err := gdb.Create(&model.Like{UserID: userID, ImageID: imageID}).Error; err != nil {
		t.Fatalf("create like: %v", err)
	}
}

// Comment 让 userID 在 imageID 下评论。
func Comment(t *testing.T, gdb *gorm.DB, userID, imageID, content string) {
	t.Helper()
	if err := gdb.Create(&model.Comment{UserID: userID, ImageID: imageID, Content: content}).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
}
