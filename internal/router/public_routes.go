package router

import (
	"net/http"

	"spectra-server/internal/config"
	"spectra-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerPublicRoutes(api *gin.RouterGroup) {
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

// registerStaticRoutes 以长缓存头提供本地 blob 文件。
func registerStaticRoutes(r *gin.Engine, cfg config.UploadConfig) {
	r.Group(cfg.URLPrefix, middleware.StaticCacheMiddleware(cfg.CacheControl)).
		StaticFS("", gin.Dir(cfg.Path, false))
}
