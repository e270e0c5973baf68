package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BinLe1988/soulmap-journal/models"
	"github.com/BinLe1988/soulmap-journal/pkg/metrics"
)

// MaxSummaries 参与汇总的最近分析条数
const MaxSummaries = 10

const (
	noDataMessage          = "分析データがありません"
	summaryFailedMessage   = "サマリー生成でエラーが発生しました"
	summaryParseMessage    = "パースエラー"
	summaryBulletPrefix    = "- "
	summaryBulletSeparator = "\n- "
)

var summaryOptions = Options{Temperature: 0.7, MaxOutputTokens: 1000, JSON: true}

// Aggregator 用户倾向汇总
type Aggregator struct {
	client Completer
	logger *slog.Logger
}

// NewAggregator 创建汇总器
func NewAggregator(client Completer, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{client: client, logger: logger}
}

// JoinSummaries 把最多 MaxSummaries 条非空摘要拼成列表文本
func JoinSummaries(summaries []string) string {
	items := make([]string, 0, MaxSummaries)
	for _, s := range summaries {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		items = append(items, s)
		if len(items) == MaxSummaries {
			break
		}
	}
	if len(items) == 0 {
		return ""
	}
	return summaryBulletPrefix + strings.Join(items, summaryBulletSeparator)
}

// Summarize 根据拼接好的摘要文本生成整体倾向
//
// 与 Analyzer 相同，除传输错误外都返回结构完整的降级结果。
func (g *Aggregator) Summarize(ctx context.Context, joined string) (*models.UserTrendSummary, error) {
	if !g.client.Configured() || strings.TrimSpace(joined) == "" {
		return emptySummary(noDataMessage), nil
	}

	prompt := render(userSummaryPrompt, "{analyses}", joined)
	completion, err := g.client.Complete(ctx, prompt, summaryOptions)
	if err != nil {
		switch {
		case errors.Is(err, ErrRateLimited):
			metrics.RecordDegraded("summarize_user", "rate_limited")
			return emptySummary(RateLimitMessage), nil
		case errors.Is(err, ErrProvider):
			metrics.RecordDegraded("summarize_user", "provider_error")
			return emptySummary(summaryFailedMessage), nil
		default:
			return nil, err
		}
	}

	obj, err := decodeObject(completion.Text)
	if err == nil && obj.Fields == nil {
		err = fmt.Errorf("%w: summary is not a JSON object", ErrParse)
	}
	if err != nil {
		g.logger.WarnContext(ctx, "user summary degraded", "reason", "parse", "error", err)
		metrics.RecordDegraded("summarize_user", "parse_error")
		return emptySummary(summaryParseMessage), nil
	}

	summary := &models.UserTrendSummary{
		OverallSummary:      stringField(obj.Fields, "overall_summary", ""),
		DominantEmotions:    stringsField(obj.Fields, "dominant_emotions"),
		KeyInterests:        stringsField(obj.Fields, "key_interests"),
		PersonalityOverview: stringField(obj.Fields, "personality_overview", ""),
		Recommendations:     stringsField(obj.Fields, "recommendations"),
	}
	normalizeSummary(summary)
	return summary, nil
}

func emptySummary(message string) *models.UserTrendSummary {
	s := &models.UserTrendSummary{OverallSummary: message}
	normalizeSummary(s)
	return s
}

// normalizeSummary 列表字段统一输出为空数组而不是null
func normalizeSummary(s *models.UserTrendSummary) {
	if s.DominantEmotions == nil {
		s.DominantEmotions = []string{}
	}
	if s.KeyInterests == nil {
		s.KeyInterests = []string{}
	}
	if s.Recommendations == nil {
		s.Recommendations = []string{}
	}
}
