package handler

import (
	"net/http"

	"spectra-server/internal/middleware"
	"spectra-server/internal/modules/common/httpx"

	"github.com/gin-gonic/gin"
)

// LikeImage 点赞图片，重复点赞返回当前状态。
func (h *Handler) LikeImage(c *gin.Context) {
	state, err := h.socialService.Like(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to like image")
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) UnlikeImage(c *gin.Context) {
	state, err := h.socialService.Unlike(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to unlike image")
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) FollowUser(c *gin.Context) {
	state, err := h.socialService.Follow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to follow user")
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) UnfollowUser(c *gin.Context) {
	state, err := h.socialService.Unfollow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to unfollow user")
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetUserStats 返回用户的图片数、粉丝数、关注数与收到的点赞评论数。
func (h *Handler) GetUserStats(c *gin.Context) {
	stats, err := h.socialService.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load user stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
