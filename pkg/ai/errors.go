package ai

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrRateLimited 模型服务配额耗尽
	ErrRateLimited = errors.New("ai: rate limited")
	// ErrProvider 模型服务返回其他非成功状态
	ErrProvider = errors.New("ai: provider error")
	// ErrParse 模型返回的文本不是期望的JSON
	ErrParse = errors.New("ai: parse error")
	// ErrServiceUnavailable 未配置API密钥
	ErrServiceUnavailable = errors.New("ai: service unavailable")
	// ErrTransport 未能拿到模型服务的响应
	ErrTransport = errors.New("ai: transport error")
)

// 面向用户的提示文案
const (
	RateLimitMessage     = "AI APIのレート制限に達しました。しばらく時間をおいてから再度お試しください。（毎日午前9時にリセットされます）"
	ProviderErrorMessage = "AI APIでエラーが発生しました。しばらくしてから再度お試しください。"
	NotConfiguredMessage = "Gemini APIキーが設定されていません"
	ParseErrorMessage    = "JSONパースエラー"
)

// ProviderError 模型服务返回的非成功响应
type ProviderError struct {
	StatusCode int
	// Message 可以直接展示给用户的文案
	Message string
	kind    error
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Unwrap 返回 ErrRateLimited 或 ErrProvider
func (e *ProviderError) Unwrap() error {
	return e.kind
}

// newProviderError 根据状态码和错误体归类
//
// Gemini 的配额错误并不总是以 429 状态返回，错误体里的 "429" 或
// "RESOURCE_EXHAUSTED" 也按限流处理。
func newProviderError(status int, body string) *ProviderError {
	if isRateLimited(status, body) {
		return &ProviderError{StatusCode: status, Message: RateLimitMessage, kind: ErrRateLimited}
	}
	return &ProviderError{StatusCode: status, Message: ProviderErrorMessage, kind: ErrProvider}
}

func isRateLimited(status int, body string) bool {
	return status == http.StatusTooManyRequests ||
		strings.Contains(body, "429") ||
		strings.Contains(body, "RESOURCE_EXHAUSTED")
}

// UserMessage 返回可以展示给用户的错误文案
func UserMessage(err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Message
	}
	switch {
	case errors.Is(err, ErrServiceUnavailable):
		return NotConfiguredMessage
	case errors.Is(err, ErrParse):
		return ParseErrorMessage
	default:
		return ProviderErrorMessage
	}
}
