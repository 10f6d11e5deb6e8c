package handler

import (
	"errors"
	"net/http"
	"strconv"

	"spectra-server/internal/middleware"
	"spectra-server/internal/modules/common/httpx"
	moduledto "spectra-server/internal/modules/image/dto"
	imageservice "spectra-server/internal/modules/image/service"
	"spectra-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const uploadFileField = "imageFile"

func (h *Handler) UploadImage(c *gin.Context) {
	var req moduledto.UploadImageRequest
	if err := c.ShouldBind(&req); err != nil {
		if bodyTooLarge(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.FileTooLargeMessage})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload form: title is required (max 200), description max 1000, tags max 500"})
		return
	}

	file, err := c.FormFile(uploadFileField)
	if err != nil {
		if bodyTooLarge(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.FileTooLargeMessage})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read uploaded file"})
		return
	}
	defer func() { _ = src.Close() }()

	item, err := h.imageService.Upload(c.Request.Context(), imageservice.UploadInput{
		OwnerID:     middleware.CurrentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Content:     src,
	})
	if err != nil {
		httpx.WriteServiceError(c, err, "upload failed, please try again later")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetImage(c *gin.Context) {
	item, err := h.imageService.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load image")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) GetMyImages(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	page, err := h.imageService.ListByOwner(c.Request.Context(), viewerID, viewerID, paginationFromQuery(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to list images")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetUserImages(c *gin.Context) {
	page, err := h.imageService.ListByOwner(c.Request.Context(), middleware.CurrentUserID(c), c.Param("userId"), paginationFromQuery(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to list images")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetFeed(c *gin.Context) {
	page, err := h.imageService.ListFeed(c.Request.Context(), middleware.CurrentUserID(c), paginationFromQuery(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to list feed")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetAllImages(c *gin.Context) {
	page, err := h.imageService.ListAll(c.Request.Context(), middleware.CurrentUserID(c), paginationFromQuery(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to list images")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) UpdateImage(c *gin.Context) {
	var req moduledto.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: title is required (max 200), description max 1000, tags max 500"})
		return
	}

	item, err := h.imageService.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), imageservice.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to update image")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteImage(c *gin.Context) {
	if err := h.imageService.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		httpx.WriteServiceError(c, err, "failed to delete image")
		return
	}
	c.Status(http.StatusNoContent)
}

// paginationFromQuery 读取 page 与 pageSize，缺失或非法时使用默认值。
func paginationFromQuery(c *gin.Context) moduledto.PaginationRequest {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(imageservice.DefaultPageSize)))
	if err != nil {
		pageSize = imageservice.DefaultPageSize
	}
	return moduledto.PaginationRequest{Page: page, PageSize: pageSize}
}

// bodyTooLarge 判断表单解析是否因请求体超过 MaxBytesReader 上限而失败。
func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
