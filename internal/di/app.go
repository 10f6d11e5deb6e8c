package di

import (
	"spectra-server/internal/config"
	"spectra-server/internal/modules"
	"spectra-server/internal/router"
)

type Application struct {
	Router  *router.Router
	Modules *modules.AppModules
}

func NewApplication(r *router.Router, m *modules.AppModules) *Application {
	return &Application{
		Router:  r,
		Modules: m,
	}
}

func provideCachePrefix(cfg config.Config) modules.CachePrefix {
	return modules.CachePrefix(cfg.Redis.Prefix)
}
