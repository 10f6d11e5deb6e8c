package image

import (
	"spectra-server/internal/events"
	"spectra-server/internal/modules/image/handler"
	"spectra-server/internal/modules/image/repo"
	"spectra-server/internal/modules/image/service"
	"spectra-server/internal/storage"

	"go.uber.org/zap"
)

type Module struct {
	Store   repo.ImageStore
	Service *service.Service
	Handler *handler.Handler
}

func New(imageStore repo.ImageStore, counters service.Counters, blobs storage.BlobStore, publisher events.Publisher, log *zap.Logger) *Module {
	moduleService := service.New(imageStore, counters, blobs, publisher, log)
	return &Module{
		Store:   imageStore,
		Service: moduleService,
		Handler: handler.New(moduleService),
	}
}
