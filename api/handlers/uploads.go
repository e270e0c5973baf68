package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadSize 单张图片上限
const MaxUploadSize = 10 << 20

// UploadURLPrefix 上传文件的访问前缀
const UploadURLPrefix = "/uploads"

type UploadHandler struct {
	dir    string
	logger *slog.Logger
}

func NewUploadHandler(dir string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{dir: dir, logger: logger}
}

// RegisterRoutes 注册路由
func (h *UploadHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	authorized.POST("/uploads/image", h.UploadImage)
}

// UploadImage 上传图片，返回可访问的URL
func (h *UploadHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1<<20)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}
	if file.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.NewString() + ext

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to create upload dir", "dir", h.dir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(h.dir, filename)); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to save upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      UploadURLPrefix + "/" + filename,
		"filename": filename,
	})
}
