package repo

import (
	"context"

	"spectra-server/internal/model"

	"gorm.io/gorm"
)

// UserStore 是身份服务的只读投影：按 ID 查询资料，按名称搜索。
// 记录不存在时 FindByID 返回 gorm.ErrRecordNotFound。
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	Search(ctx context.Context, query string, limit int) ([]model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}
