package service

import (
	"context"
	"time"

	"spectra-server/internal/model"
	"spectra-server/internal/modules/social/repo"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsCacheTTL = 30 * time.Second

// Lookup 判断实体是否存在，由图片与身份模块提供。
type Lookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Directory 提供资料页与用户搜索所需的身份查询，由身份模块实现。
type Directory interface {
	Lookup
	FindByID(ctx context.Context, id string) (*model.User, error)
	Search(ctx context.Context, query string, limit int) ([]model.User, error)
}

type Service struct {
	store       repo.SocialStore
	images      Lookup
	users       Directory
	cache       redis.Cmdable
	cachePrefix string
	log         *zap.Logger
}

// New 创建社交服务。rdb 为 nil 时统计数据每次直接计算。
func New(store repo.SocialStore, images Lookup, users Directory, rdb *redis.Client, cachePrefix string, log *zap.Logger) *Service {
	s := &Service{
		store:       store,
		images:      images,
		users:       users,
		cachePrefix: cachePrefix,
		log:         log,
	}
	if rdb != nil {
		s.cache = rdb
	}
	return s
}
