package handler

import socialservice "spectra-server/internal/modules/social/service"

type Handler struct {
	socialService *socialservice.Service
}

func New(socialService *socialservice.Service) *Handler {
	return &Handler{socialService: socialService}
}
