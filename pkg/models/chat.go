package models

import "time"

// ChatRole identifies who authored a chat message.
type ChatRole string

// Chat roles as stored by the chat-history endpoints.
const (
	ChatRoleUser ChatRole = "user"
	ChatRoleBot  ChatRole = "bot"
)

// ChatHistoryMessage is one persisted chat turn.
type ChatHistoryMessage struct {
	ID        string    `json:"id,omitempty"`
	Type      ChatRole  `json:"type"`
	Content   string    `json:"content"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistory is the stored transcript of one assistant or compliance chat.
type ChatHistory struct {
	ID        string               `json:"_id,omitempty"`
	CaseID    string               `json:"caseId,omitempty"`
	Messages  []ChatHistoryMessage `json:"messages"`
	UpdatedAt time.Time            `json:"updatedAt,omitempty"`
}

// SaveChatHistoryRequest appends messages to a stored transcript
type SaveChatHistoryRequest struct {
	Messages []ChatHistoryMessage `json:"messages"`
}
