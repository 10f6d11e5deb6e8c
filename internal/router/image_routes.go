package router

import (
	"spectra-server/internal/middleware"
	imagehandler "spectra-server/internal/modules/image/handler"
	socialhandler "spectra-server/internal/modules/social/handler"

	"github.com/gin-gonic/gin"
)

func registerImageRoutes(api *gin.RouterGroup, h *imagehandler.Handler, sh *socialhandler.Handler, jsonLimit, uploadLimit gin.HandlerFunc) {
	images := api.Group("/images")

	public := images.Group("")
	public.Use(middleware.OptionalJWTAuth())
	public.GET("", h.GetAllImages)
	public.GET("/user/:userId", h.GetUserImages)

	authed := images.Group("")
	authed.Use(middleware.JWTAuth())
	authed.POST("", uploadLimit, h.UploadImage)
	authed.GET("/me", h.GetMyImages)
	authed.GET("/feed", h.GetFeed)
	authed.PUT("/:id", jsonLimit, h.UpdateImage)
	authed.DELETE("/:id", h.DeleteImage)
	authed.POST("/:id/like", sh.LikeImage)
	authed.DELETE("/:id/like", sh.UnlikeImage)

	public.GET("/:id", h.GetImage)
}
