package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/BinLe1988/soulmap-journal/models"
	"github.com/BinLe1988/soulmap-journal/pkg/ai"
	"github.com/BinLe1988/soulmap-journal/pkg/ai/mock_ai"
	"github.com/BinLe1988/soulmap-journal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var analysisOpts = ai.Options{Temperature: 0.7, MaxOutputTokens: 1000, JSON: true}

func strPtr(s string) *string { return &s }

func assertMock(t *testing.T, result *models.AnalysisResult, summary string) {
	t.Helper()
	expected := ai.MockAnalysis(summary)
	assert.Equal(t, expected, result)
	assert.Equal(t, 0.5, result.Emotions.Joy)
	assert.Equal(t, 0.5, result.PersonalityTraits.Neuroticism)
	assert.Equal(t, []string{"日常"}, result.Topics)
	assert.Equal(t, []string{"自己成長"}, result.Interests)
}

func TestAnalyzer_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_ai.NewMockCompleter(ctrl)
	client.EXPECT().Configured().Return(false)

	result, tokens, err := ai.NewAnalyzer(client, logger.Discard()).Analyze(context.Background(), strPtr("t"), "body")
	require.NoError(t, err)
	assert.Equal(t, 0, tokens)
	assertMock(t, result, ai.NotConfiguredMessage)
}

func TestAnalyzer_NotConfiguredMakesNoRequest(t *testing.T) {
	f := newFakeGemini(t, http.StatusOK, `{}`)

	result, tokens, err := ai.NewAnalyzer(f.client(""), logger.Discard()).Analyze(context.Background(), nil, "body")
	require.NoError(t, err)
	assert.Equal(t, 0, tokens)
	assertMock(t, result, ai.NotConfiguredMessage)
	assert.Equal(t, int32(0), f.hits.Load())
}

func TestAnalyzer_MorningWalk(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_ai.NewMockCompleter(ctrl)

	response := `{
		"emotions": {"joy": 0.8, "sadness": 0.05, "anger": 0.0, "fear": 0.02, "surprise": 0.1},
		"topics": ["walking", "river", "nature"],
		"personality_traits": {"openness": 0.7, "conscientiousness": 0.6, "extraversion": 0.4, "agreeableness": 0.75, "neuroticism": 0.2},
		"interests": ["outdoors", "mindfulness"],
		"summary": "The writer enjoyed a calm walk. Nature helps them relax."
	}`

	client.EXPECT().Configured().Return(true)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any(), analysisOpts).
		DoAndReturn(func(_ context.Context, prompt string, _ ai.Options) (*ai.Completion, error) {
			assert.Contains(t, prompt, "タイトル: Morning Walk")
			assert.Contains(t, prompt, "本文: I walked by the river and felt calm.")
			return &ai.Completion{Text: response, TokensUsed: 321}, nil
		})

	result, tokens, err := ai.NewAnalyzer(client, logger.Discard()).
		Analyze(context.Background(), strPtr("Morning Walk"), "I walked by the river and felt calm.")
	require.NoError(t, err)
	assert.Equal(t, 321, tokens)

	assert.Equal(t, &models.AnalysisResult{
		Emotions:          models.Emotions{Joy: 0.8, Sadness: 0.05, Anger: 0.0, Fear: 0.02, Surprise: 0.1},
		Topics:            []string{"walking", "river", "nature"},
		PersonalityTraits: models.PersonalityTraits{Openness: 0.7, Conscientiousness: 0.6, Extraversion: 0.4, Agreeableness: 0.75, Neuroticism: 0.2},
		Interests:         []string{"outdoors", "mindfulness"},
		Summary:           "The writer enjoyed a calm walk. Nature helps them relax.",
		Raw:               json.RawMessage(response),
	}, result)

	record, err := models.NewAnalysis(uuid.New(), uuid.New(), result, tokens, ai.DefaultModel)
	require.NoError(t, err)
	assert.JSONEq(t, response, string(record.Result))
	assert.Equal(t, result.Summary, record.Summary())
}

func TestAnalyzer_MismatchedFieldsKeepAnalysis(t *testing.T) {
	tests := map[string]struct {
		response string
		check    func(t *testing.T, result *models.AnalysisResult)
	}{
		"string score": {
			response: `{"emotions":{"joy":"0.8","sadness":0.1},"topics":["walk"],"summary":"calm"}`,
			check: func(t *testing.T, result *models.AnalysisResult) {
				assert.Equal(t, 0.0, result.Emotions.Joy)
				assert.Equal(t, 0.1, result.Emotions.Sadness)
				assert.Equal(t, []string{"walk"}, result.Topics)
			},
		},
		"string topics": {
			response: `{"topics":"walk","summary":"calm"}`,
			check: func(t *testing.T, result *models.AnalysisResult) {
				assert.Nil(t, result.Topics)
			},
		},
		"partial object": {
			response: `{"summary":"calm"}`,
			check: func(t *testing.T, result *models.AnalysisResult) {
				assert.Nil(t, result.Interests)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_ai.NewMockCompleter(ctrl)
			client.EXPECT().Configured().Return(true)
			client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&ai.Completion{Text: tt.response, TokensUsed: 12}, nil)

			result, tokens, err := ai.NewAnalyzer(client, logger.Discard()).Analyze(context.Background(), nil, "c")
			require.NoError(t, err)
			assert.Equal(t, 12, tokens)
			assert.Equal(t, "calm", result.Summary)
			tt.check(t, result)

			// 保存的记录与模型返回的JSON一致，没有补出模型未给的字段
			record, err := models.NewAnalysis(uuid.New(), uuid.New(), result, tokens, ai.DefaultModel)
			require.NoError(t, err)
			assert.JSONEq(t, tt.response, string(record.Result))
		})
	}
}

func TestAnalyzer_NonObjectJSONDegrades(t *testing.T) {
	for _, text := range []string{"[]", `"calm"`, "null"} {
		ctrl := gomock.NewController(t)
		client := mock_ai.NewMockCompleter(ctrl)
		client.EXPECT().Configured().Return(true)
		client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ai.Completion{Text: text, TokensUsed: 3}, nil)

		result, tokens, err := ai.NewAnalyzer(client, logger.Discard()).Analyze(context.Background(), nil, "c")
		require.NoError(t, err, text)
		assert.Equal(t, 3, tokens, text)
		assertMock(t, result, ai.ParseErrorMessage)
	}
}

func TestAnalyzer_UntitledPlaceholder(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_ai.NewMockCompleter(ctrl)
	client.EXPECT().Configured().Return(true)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any(), analysisOpts).
		DoAndReturn(func(_ context.Context, prompt string, _ ai.Options) (*ai.Completion, error) {
			assert.Contains(t, prompt, "タイトル: （タイトルなし）")
			// 正文里的占位符文字不会被再次替换
			assert.Contains(t, prompt, "本文: literal {title} text")
			return &ai.Completion{Text: `{"summary": "ok"}`, TokensUsed: 5}, nil
		})

	result, tokens, err := ai.NewAnalyzer(client, logger.Discard()).Analyze(context.Background(), nil, "literal {title} text")
	require.NoError(t, err)
	assert.Equal(t, 5, tokens)
	assert.Equal(t, "ok", result.Summary)
}

func TestAnalyzer_OutOfRangePassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_ai.NewMockCompleter(ctrl)
	client.EXPECT().Configured().Return(true)
	client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ai.Completion{Text: `{"emotions": {"joy": 1.7, "anger": -0.3}}`, TokensUsed: 9}, nil)

	result, _, err := ai.NewAnalyzer(client, logger.Discard()).Analyze(context.Background(), nil, "x")
	require.NoError(t, err)
	assert.Equal(t, 1.7, result.Emotions.Joy)
	assert.Equal(t, -0.3, result.Emotions.Anger)
}

func TestAnalyzer_ProviderErrorsDegrade(t *testing.T) {
	tests := map[string]struct {
		status  int
		body    string
		message string
	}{
		"rate limited": {
			status:  http.StatusTooManyRequests,
			body:    `{"error": {"status": "RESOURCE_EXHAUSTED"}}`,
			message: ai.RateLimitMessage,
		},
		"provider error": {
			status:  http.StatusServiceUnavailable,
			body:    `{"error": {"status": "UNAVAILABLE"}}`,
			message: ai.ProviderErrorMessage,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFakeGemini(t, tt.status, tt.body)

			result, tokens, err := ai.NewAnalyzer(f.client(testAPIKey), logger.Discard()).
				Analyze(context.Background(), strPtr("t"), "c")
			require.NoError(t, err)
			assert.Equal(t, 0, tokens)
			assertMock(t, result, tt.message)
		})
	}
}

func TestAnalyzer_RateLimitMessageMentionsReset(t *testing.T) {
	f := newFakeGemini(t, http.StatusTooManyRequests, `{"error": {"code": 429}}`)

	result, _, err := ai.NewAnalyzer(f.client(testAPIKey), logger.Discard()).Analyze(context.Background(), nil, "c")
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "レート制限")
	assert.Contains(t, result.Summary, "午前9時")
}

func TestAnalyzer_ParseErrorKeepsTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_ai.NewMockCompleter(ctrl)
	client.EXPECT().Configured().Return(true)
	client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ai.Completion{Text: "sorry, I cannot do that", TokensUsed: 77}, nil)

	result, tokens, err := ai.NewAnalyzer(client, logger.Discard()).Analyze(context.Background(), nil, "c")
	require.NoError(t, err)
	assert.Equal(t, 77, tokens)
	assertMock(t, result, ai.ParseErrorMessage)
}

func TestAnalyzer_TransportErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_ai.NewMockCompleter(ctrl)
	client.EXPECT().Configured().Return(true)
	client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: connection refused", ai.ErrTransport))

	result, tokens, err := ai.NewAnalyzer(client, logger.Discard()).Analyze(context.Background(), nil, "c")
	assert.Nil(t, result)
	assert.Equal(t, 0, tokens)
	assert.True(t, errors.Is(err, ai.ErrTransport))
}
