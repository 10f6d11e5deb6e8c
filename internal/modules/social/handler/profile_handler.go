package handler

import (
	"net/http"
	"strconv"

	"spectra-server/internal/middleware"
	"spectra-server/internal/modules/common/httpx"

	"github.com/gin-gonic/gin"
)

// GetUserProfile 返回用户资料，登录用户查看他人时附带关注状态。
func (h *Handler) GetUserProfile(c *gin.Context) {
	profile, err := h.socialService.Profile(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load user profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) GetMyProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	profile, err := h.socialService.Profile(c.Request.Context(), userID, userID)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load user profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SearchUsers 按 q 搜索用户，limit 缺省或非法时使用默认值。
func (h *Handler) SearchUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	profiles, err := h.socialService.Search(c.Request.Context(), middleware.CurrentUserID(c), c.Query("q"), limit)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to search users")
		return
	}
	c.JSON(http.StatusOK, profiles)
}
