package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BinLe1988/soulmap-journal/models"
	"github.com/BinLe1988/soulmap-journal/pkg/metrics"
)

var analysisOptions = Options{Temperature: 0.7, MaxOutputTokens: 1000, JSON: true}

// Analyzer 投稿分析引擎
type Analyzer struct {
	client Completer
	logger *slog.Logger
}

// NewAnalyzer 创建分析引擎
func NewAnalyzer(client Completer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, logger: logger}
}

// Analyze 分析一篇投稿，返回分析结果和消耗的token数
//
// 限流、服务端错误和解析失败都返回降级结果而不是错误，
// 只有拿不到响应的传输错误会返回给调用方。
func (a *Analyzer) Analyze(ctx context.Context, title *string, content string) (*models.AnalysisResult, int, error) {
	if !a.client.Configured() {
		metrics.RecordDegraded("analyze", "not_configured")
		return MockAnalysis(NotConfiguredMessage), 0, nil
	}

	postTitle := untitledPlaceholder
	if title != nil {
		postTitle = *title
	}
	prompt := render(analysisPrompt, "{title}", postTitle, "{content}", content)

	completion, err := a.client.Complete(ctx, prompt, analysisOptions)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			a.logger.WarnContext(ctx, "analysis degraded", "reason", "provider", "status", perr.StatusCode)
			metrics.RecordDegraded("analyze", degradeReason(err))
			return MockAnalysis(perr.Message), 0, nil
		}
		return nil, 0, err
	}

	obj, err := decodeObject(completion.Text)
	if err == nil && obj.Fields == nil {
		err = fmt.Errorf("%w: analysis is not a JSON object", ErrParse)
	}
	if err != nil {
		a.logger.WarnContext(ctx, "analysis degraded", "reason", "parse", "error", err)
		metrics.RecordDegraded("analyze", "parse_error")
		return MockAnalysis(ParseErrorMessage), completion.TokensUsed, nil
	}

	return analysisView(obj), completion.TokensUsed, nil
}

// analysisView 从模型返回的对象中取出各字段，原始JSON原样保留
func analysisView(obj *jsonObject) *models.AnalysisResult {
	emotions := objectField(obj.Fields, "emotions")
	traits := objectField(obj.Fields, "personality_traits")
	return &models.AnalysisResult{
		Emotions: models.Emotions{
			Joy:      floatField(emotions, "joy"),
			Sadness:  floatField(emotions, "sadness"),
			Anger:    floatField(emotions, "anger"),
			Fear:     floatField(emotions, "fear"),
			Surprise: floatField(emotions, "surprise"),
		},
		Topics: stringsField(obj.Fields, "topics"),
		PersonalityTraits: models.PersonalityTraits{
			Openness:          floatField(traits, "openness"),
			Conscientiousness: floatField(traits, "conscientiousness"),
			Extraversion:      floatField(traits, "extraversion"),
			Agreeableness:     floatField(traits, "agreeableness"),
			Neuroticism:       floatField(traits, "neuroticism"),
		},
		Interests: stringsField(obj.Fields, "interests"),
		Summary:   stringField(obj.Fields, "summary", ""),
		Raw:       obj.Raw,
	}
}

// MockAnalysis 降级时返回的固定分析结果
func MockAnalysis(message string) *models.AnalysisResult {
	return &models.AnalysisResult{
		Emotions: models.Emotions{
			Joy: 0.5, Sadness: 0.5, Anger: 0.5, Fear: 0.5, Surprise: 0.5,
		},
		Topics: []string{"日常"},
		PersonalityTraits: models.PersonalityTraits{
			Openness:          0.5,
			Conscientiousness: 0.5,
			Extraversion:      0.5,
			Agreeableness:     0.5,
			Neuroticism:       0.5,
		},
		Interests: []string{"自己成長"},
		Summary:   message,
	}
}

func degradeReason(err error) string {
	if errors.Is(err, ErrRateLimited) {
		return "rate_limited"
	}
	return "provider_error"
}
