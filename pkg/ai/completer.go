package ai

import "context"

//go:generate mockgen -source=completer.go -destination=mock_ai/mock_completer.go -package=mock_ai

// Options 单次生成的采样参数
type Options struct {
	Temperature     float64
	MaxOutputTokens int
	// JSON 为true时要求模型只输出JSON
	JSON bool
}

// Completion 生成结果
type Completion struct {
	Text       string
	TokensUsed int
}

// Completer 文本生成服务
type Completer interface {
	// Configured 是否配置了API密钥，未配置时调用方应走降级分支
	Configured() bool
	// Complete 发送提示词并返回生成文本
	Complete(ctx context.Context, prompt string, opts Options) (*Completion, error)
}
