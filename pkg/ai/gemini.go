package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BinLe1988/soulmap-journal/pkg/metrics"
)

const (
	// DefaultBaseURL Gemini API 地址
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel 默认模型
	DefaultModel = "gemini-2.0-flash"
	// DefaultTimeout 单次请求超时
	DefaultTimeout = 60 * time.Second

	jsonMimeType = "application/json"
	maxErrorBody = 64 << 10
)

// 请求结构体
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

// 响应结构体
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// GeminiConfig Gemini客户端配置
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiClient 调用 Gemini generateContent 接口
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeminiClient 创建Gemini客户端
func NewGeminiClient(cfg GeminiConfig, logger *slog.Logger) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &GeminiClient{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Configured 是否配置了API密钥
func (c *GeminiClient) Configured() bool {
	return c.apiKey != ""
}

// Model 返回模型名称
func (c *GeminiClient) Model() string {
	return c.model
}

// Complete 发送提示词并返回第一个候选的第一段文本
func (c *GeminiClient) Complete(ctx context.Context, prompt string, opts Options) (*Completion, error) {
	if !c.Configured() {
		return nil, ErrServiceUnavailable
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	}
	if opts.JSON {
		reqBody.GenerationConfig.ResponseMimeType = jsonMimeType
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(metrics.OutcomeTransport, start, 0)
		return nil, fmt.Errorf("%w: %v", ErrTransport, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		perr := newProviderError(resp.StatusCode, string(body))
		c.logger.ErrorContext(ctx, "gemini api error",
			"status", resp.StatusCode,
			"model", c.model,
			"rate_limited", errors.Is(perr, ErrRateLimited),
			"body", string(body))

		outcome := metrics.OutcomeProvider
		if errors.Is(perr, ErrRateLimited) {
			outcome = metrics.OutcomeRateLimited
		}
		c.record(outcome, start, 0)
		return nil, perr
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		c.record(metrics.OutcomeTransport, start, 0)
		return nil, fmt.Errorf("%w: failed to decode gemini response: %v", ErrTransport, err)
	}

	completion := &Completion{}
	if len(gr.Candidates) > 0 && len(gr.Candidates[0].Content.Parts) > 0 {
		completion.Text = gr.Candidates[0].Content.Parts[0].Text
	}
	if gr.UsageMetadata != nil {
		completion.TokensUsed = gr.UsageMetadata.TotalTokenCount
	}

	c.record(metrics.OutcomeSuccess, start, completion.TokensUsed)
	c.logger.DebugContext(ctx, "gemini completion received",
		"model", c.model,
		"tokens", completion.TokensUsed,
		"duration_ms", time.Since(start).Milliseconds())
	return completion, nil
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
}

func (c *GeminiClient) record(outcome string, start time.Time, tokens int) {
	metrics.RecordAICall(c.model, outcome, time.Since(start).Seconds(), tokens)
}

// redact 去掉 *url.Error 中携带密钥的URL
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

var _ Completer = (*GeminiClient)(nil)
