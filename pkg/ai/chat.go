package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BinLe1988/soulmap-journal/models"
)

// DraftOfferThreshold 用户发言达到该次数后提示可以写成日记
const DraftOfferThreshold = 4

const defaultDraftTitle = "今日の日記"

var (
	replyOptions = Options{Temperature: 0.9, MaxOutputTokens: 500}
	draftOptions = Options{Temperature: 0.7, MaxOutputTokens: 1000, JSON: true}
)

// Drafter 对话式日记助手
//
// 服务端不保存会话，每次调用都由客户端传入完整的对话历史。
type Drafter struct {
	client Completer
	logger *slog.Logger
}

// NewDrafter 创建日记助手
func NewDrafter(client Completer, logger *slog.Logger) *Drafter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Drafter{client: client, logger: logger}
}

// CountUserTurns 统计用户发言次数
func CountUserTurns(transcript []models.ChatTurn) int {
	n := 0
	for _, turn := range transcript {
		if turn.Role == models.RoleUser {
			n++
		}
	}
	return n
}

// ShouldOfferDraft 用户发言达到阈值时返回true
func ShouldOfferDraft(transcript []models.ChatTurn) bool {
	return CountUserTurns(transcript) >= DraftOfferThreshold
}

// Reply 生成助手的下一条回复
func (d *Drafter) Reply(ctx context.Context, transcript []models.ChatTurn) (*models.ChatReply, error) {
	if !d.client.Configured() {
		return nil, ErrServiceUnavailable
	}

	completion, err := d.client.Complete(ctx, buildChatPrompt(transcript), replyOptions)
	if err != nil {
		d.logger.ErrorContext(ctx, "chat reply failed", "error", err, "turns", len(transcript))
		return nil, err
	}

	return &models.ChatReply{
		Message: models.ChatTurn{
			Role:    models.RoleAssistant,
			Content: completion.Text,
		},
		ShouldSummarize: ShouldOfferDraft(transcript),
	}, nil
}

// Draft 把完整对话转换成日记草稿
func (d *Drafter) Draft(ctx context.Context, transcript []models.ChatTurn) (*models.DiaryDraft, error) {
	if !d.client.Configured() {
		return nil, ErrServiceUnavailable
	}

	prompt := render(draftPrompt, "{conversation}", buildConversationBlock(transcript))
	completion, err := d.client.Complete(ctx, prompt, draftOptions)
	if err != nil {
		d.logger.ErrorContext(ctx, "diary draft failed", "error", err, "turns", len(transcript))
		return nil, err
	}

	text := completion.Text
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}

	// 合法JSON但不是对象时按缺字段处理
	obj, err := decodeObject(text)
	if err != nil {
		return nil, err
	}

	return &models.DiaryDraft{
		Title:   stringField(obj.Fields, "title", defaultDraftTitle),
		Content: stringField(obj.Fields, "content", ""),
	}, nil
}

// buildChatPrompt 人设 + 带角色标签的对话 + 待续写的助手标记
func buildChatPrompt(transcript []models.ChatTurn) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "System: %s\n\n", assistantPersona)
	for _, turn := range transcript {
		label := "Assistant"
		if turn.Role == models.RoleUser {
			label = "User"
		}
		fmt.Fprintf(&sb, "%s: %s\n", label, turn.Content)
	}
	sb.WriteString("\nAssistant: ")
	return sb.String()
}

func buildConversationBlock(transcript []models.ChatTurn) string {
	var sb strings.Builder
	for _, turn := range transcript {
		label := "AI"
		if turn.Role == models.RoleUser {
			label = "ユーザー"
		}
		fmt.Fprintf(&sb, "%s: %s\n", label, turn.Content)
	}
	return sb.String()
}
