package router

import (
	"spectra-server/internal/config"
	"spectra-server/internal/logger"
	"spectra-server/internal/metrics"
	"spectra-server/internal/middleware"
	"spectra-server/internal/modules"
	"spectra-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	// 普通 JSON 请求体上限。
	jsonBodyLimit int64 = 1 << 20
	// multipart 分隔符与表单字段的额外开销。
	multipartOverhead int64 = 1 << 20
)

type Router struct {
	modules *modules.AppModules
	cfg     config.Config
}

func NewRouter(appModules *modules.AppModules, cfg config.Config) *Router {
	return &Router{
		modules: appModules,
		cfg:     cfg,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	r.Use(logger.Middleware())
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())

	if rt.cfg.Metrics.Enabled {
		metrics.Register(r, rt.cfg.Metrics.Path)
	}

	// 仅本地驱动需要由本服务提供 blob 访问
	if rt.cfg.Upload.Driver == "" || rt.cfg.Upload.Driver == "local" {
		registerStaticRoutes(r, rt.cfg.Upload)
	}

	api := r.Group("/api")
	jsonLimit := middleware.BodyLimitMiddleware(jsonBodyLimit)
	uploadLimit := middleware.UploadBodyLimitMiddleware(utils.MaxImageUploadBytes+multipartOverhead, utils.FileTooLargeMessage)

	registerPublicRoutes(api)
	registerImageRoutes(api, rt.modules.Image.Handler, rt.modules.Social.Handler, jsonLimit, uploadLimit)
	registerUserRoutes(api, rt.modules.Social.Handler, jsonLimit)
}
