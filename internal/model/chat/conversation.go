package chat

import (
	"time"
	"unicode/utf8"
)

// TitlePreviewLimit bounds the auto-generated conversation title taken from
// the first user message.
const TitlePreviewLimit = 50

// MedicalContext maps context-field names to extracted values. Updates are
// merged key-by-key, so unrelated keys survive a partial update.
type MedicalContext map[string]any

// Conversation is a titled, time-ordered sequence of messages bound to one
// default backend model.
type Conversation struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Messages       []Message      `json:"messages"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Model          string         `json:"model"`
	MedicalContext MedicalContext `json:"medicalContext"`
}

// Summary is the sidebar-facing view of a conversation.
type Summary struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	MessageCount   int            `json:"messageCount"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Model          string         `json:"model"`
	MedicalContext MedicalContext `json:"medicalContext"`
}

// TitlePreview truncates content to TitlePreviewLimit runes, marking longer
// input with a trailing ellipsis.
func TitlePreview(content string) string {
	if utf8.RuneCountInString(content) <= TitlePreviewLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:TitlePreviewLimit]) + "..."
}
