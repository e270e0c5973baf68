package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisTypeFull 完整分析
const AnalysisTypeFull = "full"

// Emotions 情绪得分，取值约定在 0.0-1.0，不做截断
type Emotions struct {
	Joy      float64 `json:"joy"`
	Sadness  float64 `json:"sadness"`
	Anger    float64 `json:"anger"`
	Fear     float64 `json:"fear"`
	Surprise float64 `json:"surprise"`
}

// PersonalityTraits 大五人格得分
type PersonalityTraits struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// AnalysisResult 单篇投稿的AI分析结果
//
// 类型化字段是宽松解析出的视图，类型不符的字段保持零值。
// Raw 非空时序列化直接输出模型返回的原始JSON对象。
type AnalysisResult struct {
	Emotions          Emotions          `json:"emotions"`
	Topics            []string          `json:"topics"`
	PersonalityTraits PersonalityTraits `json:"personality_traits"`
	Interests         []string          `json:"interests"`
	Summary           string            `json:"summary"`

	Raw json.RawMessage `json:"-"`
}

// MarshalJSON 优先输出原始JSON
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain AnalysisResult
	return json.Marshal(plain(r))
}

// UserTrendSummary 用户近期分析的整体倾向
type UserTrendSummary struct {
	OverallSummary      string   `json:"overall_summary"`
	DominantEmotions    []string `json:"dominant_emotions"`
	KeyInterests        []string `json:"key_interests"`
	PersonalityOverview string   `json:"personality_overview"`
	Recommendations     []string `json:"recommendations"`
}

// Analysis 已保存的分析记录
type Analysis struct {
	ID           uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	PostID       uuid.UUID      `gorm:"type:char(36);not null;index" json:"post_id"`
	UserID       uuid.UUID      `gorm:"type:char(36);not null;index" json:"user_id"`
	AnalysisType string         `gorm:"size:20;not null;default:'full'" json:"analysis_type"`
	Result       datatypes.JSON `gorm:"not null" json:"result"`
	TokensUsed   int            `json:"tokens_used"`
	ModelVersion string         `gorm:"size:100" json:"model_version"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

// BeforeCreate 创建前生成主键
func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AnalysisType == "" {
		a.AnalysisType = AnalysisTypeFull
	}
	return nil
}

// NewAnalysis 由分析结果构造待保存的记录
func NewAnalysis(postID, userID uuid.UUID, result *AnalysisResult, tokensUsed int, modelVersion string) (*Analysis, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		PostID:       postID,
		UserID:       userID,
		AnalysisType: AnalysisTypeFull,
		Result:       datatypes.JSON(raw),
		TokensUsed:   tokensUsed,
		ModelVersion: modelVersion,
	}, nil
}

// Summary 取出结果中的摘要，结果无法解析时返回空串
func (a *Analysis) Summary() string {
	var partial struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(a.Result, &partial); err != nil {
		return ""
	}
	return partial.Summary
}

// CreateAnalysisRequest 创建分析请求
type CreateAnalysisRequest struct {
	PostID uuid.UUID `json:"post_id" binding:"required"`
}

// UserSummaryResponse 用户倾向汇总响应
type UserSummaryResponse struct {
	UserID             uuid.UUID         `json:"user_id"`
	TotalPostsAnalyzed int64             `json:"total_posts_analyzed"`
	Summary            *UserTrendSummary `json:"summary"`
}
