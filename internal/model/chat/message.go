package chat

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn inside a conversation. IsMedicalQuery is computed
// once when the message is appended and never changes afterwards.
type Message struct {
	ID             string    `json:"id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Model          string    `json:"model"`
	IsMedicalQuery bool      `json:"isMedicalQuery"`
}
