package user

import (
	"spectra-server/internal/modules/user/repo"

	"gorm.io/gorm"
)

// Module 对外提供身份查询，供图片与社交模块附加所有者信息。
type Module struct {
	Store repo.UserStore
}

func New(db *gorm.DB) *Module {
	return &Module{Store: repo.NewUserRepository(db)}
}
