package modules

import (
	"spectra-server/internal/events"
	"spectra-server/internal/modules/image"
	imagerepo "spectra-server/internal/modules/image/repo"
	"spectra-server/internal/modules/social"
	socialrepo "spectra-server/internal/modules/social/repo"
	"spectra-server/internal/modules/user"
	"spectra-server/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CachePrefix 是 Redis 键前缀，单独成型以便依赖注入区分。
type CachePrefix string

type AppModules struct {
	User   *user.Module
	Image  *image.Module
	Social *social.Module
}

// New 组装各业务模块。rdb 可以为 nil，此时社交统计不走缓存。
func New(
	gdb *gorm.DB,
	blobs storage.BlobStore,
	publisher events.Publisher,
	rdb *redis.Client,
	cachePrefix CachePrefix,
	log *zap.Logger,
) *AppModules {
	userModule := user.New(gdb)
	socialStore := socialrepo.NewSocialRepository(gdb)
	imageModule := image.New(imagerepo.NewImageRepository(gdb), socialStore, blobs, publisher, log.Named("image"))
	socialModule := social.New(socialStore, imageModule.Service, userModule.Store, rdb, string(cachePrefix), log.Named("social"))

	return &AppModules{
		User:   userModule,
		Image:  imageModule,
		Social: socialModule,
	}
}
