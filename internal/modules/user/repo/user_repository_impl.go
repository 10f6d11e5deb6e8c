package repo

import (
	"context"
	"strings"

	"spectra-server/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// likeEscaper 转义 LIKE 通配符，'!' 作为转义符在三种数据库上写法一致。
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search 按用户名或显示名做不区分大小写的包含匹配，按用户名排序后取前 limit 条。
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	users := []model.User{}
	err := r.db.WithContext(ctx).
		Where("LOWER(user_name) LIKE ? ESCAPE '!' OR LOWER(COALESCE(display_name, '')) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("user_name asc").
		Order("id asc").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
