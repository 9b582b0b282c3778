package handlers

import (
	"io"
	"net/http"

	"decisionshub/internal/services"

	"github.com/gin-gonic/gin"
)

// ImageHandler 图片上传与回源
type ImageHandler struct{}

func NewImageHandler() *ImageHandler {
	return &ImageHandler{}
}

// Upload 上传图片，返回可写进决策的相对 URL (POST /images)
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择要上传的图片"})
		return
	}
	defer file.Close()

	storage, err := services.GetImageStorage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "图片存储不可用"})
		return
	}

	url, err := storage.Upload(c.Request.Context(), file, header)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

// Serve 从对象存储取回图片 (GET /media/decisions/:name)
func (h *ImageHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.String(http.StatusBadRequest, "缺少图片名")
		return
	}

	storage, err := services.GetImageStorage()
	if err != nil {
		c.String(http.StatusInternalServerError, "图片存储不可用")
		return
	}

	body, contentType, err := storage.Fetch(c.Request.Context(), name)
	if err != nil {
		c.String(services.HTTPStatus(err), "图片不存在")
		return
	}
	defer body.Close()

	if contentType != "" {
		c.Header("Content-Type", contentType)
	}
	// 缓存 7 天
	c.Header("Cache-Control", "public, max-age=604800")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, body)
}
