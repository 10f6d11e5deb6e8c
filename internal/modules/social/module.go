package social

import (
	"spectra-server/internal/modules/social/handler"
	"spectra-server/internal/modules/social/repo"
	"spectra-server/internal/modules/social/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Module struct {
	Store   repo.SocialStore
	Service *service.Service
	Handler *handler.Handler
}

func New(store repo.SocialStore, images service.Lookup, users service.Directory, rdb *redis.Client, cachePrefix string, log *zap.Logger) *Module {
	moduleService := service.New(store, images, users, rdb, cachePrefix, log)
	return &Module{
		Store:   store,
		Service: moduleService,
		Handler: handler.New(moduleService),
	}
}
