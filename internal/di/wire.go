//go:build wireinject
// +build wireinject

package di

import (
	"spectra-server/internal/config"
	"spectra-server/internal/events"
	"spectra-server/internal/modules"
	"spectra-server/internal/router"
	"spectra-server/internal/storage"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func InitializeApplication(
	gormDB *gorm.DB,
	blobs storage.BlobStore,
	publisher events.Publisher,
	rdb *redis.Client,
	log *zap.Logger,
	cfg config.Config,
) (*Application, error) {
	wire.Build(
		provideCachePrefix,
		modules.New,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
