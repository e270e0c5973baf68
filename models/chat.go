package models

// 对话角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn 一条对话消息
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// ChatRequest 聊天请求，客户端每次都携带完整的对话历史
type ChatRequest struct {
	Messages []ChatTurn `json:"messages" binding:"dive"`
}

// ChatReply 聊天响应
type ChatReply struct {
	Message ChatTurn `json:"message"`
	// 用户发言达到阈值后为true，前端据此显示「写成日记」按钮
	ShouldSummarize bool `json:"should_summarize"`
}

// SummarizeRequest 对话转日记请求
type SummarizeRequest struct {
	Messages []ChatTurn `json:"messages" binding:"dive"`
}

// DiaryDraft 由对话生成的日记草稿
type DiaryDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
