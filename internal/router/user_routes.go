package router

import (
	"spectra-server/internal/middleware"
	socialhandler "spectra-server/internal/modules/social/handler"

	"github.com/gin-gonic/gin"
)

func registerUserRoutes(api *gin.RouterGroup, h *socialhandler.Handler, jsonLimit gin.HandlerFunc) {
	users := api.Group("/users")
	users.GET("/:id/stats", h.GetUserStats)

	public := users.Group("")
	public.Use(middleware.OptionalJWTAuth())
	public.GET("/search", h.SearchUsers)
	public.GET("/:id", h.GetUserProfile)

	authed := users.Group("")
	authed.Use(middleware.JWTAuth(), jsonLimit)
	authed.GET("/me", h.GetMyProfile)
	authed.POST("/:id/follow", h.FollowUser)
	authed.DELETE("/:id/follow", h.UnfollowUser)
}
