package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BinLe1988/soulmap-journal/database"
	"github.com/BinLe1988/soulmap-journal/pkg/ai"

	"github.com/gin-gonic/gin"
)

// statusFor 将AI和存储层错误映射为HTTP状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, ai.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ai.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ai.ErrProvider), errors.Is(err, ai.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, database.ErrInvalidFilter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondAIError 返回AI调用失败的错误响应
func respondAIError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	logger.ErrorContext(c.Request.Context(), "ai request failed", "path", c.FullPath(), "status", status, "error", err)
	c.JSON(status, gin.H{"error": ai.UserMessage(err)})
}

// respondStoreError 返回存储层错误，notFound 为记录不存在时的提示
func respondStoreError(c *gin.Context, logger *slog.Logger, err error, notFound string) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		c.JSON(status, gin.H{"error": notFound})
	case http.StatusBadRequest, http.StatusConflict:
		c.JSON(status, gin.H{"error": err.Error()})
	default:
		logger.ErrorContext(c.Request.Context(), "database error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
