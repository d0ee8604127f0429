package ai

import (
	"fmt"
	"strings"

	"github.com/rxplain/backend/internal/model/chat"
)

// contextMessageLimit caps how many trailing messages feed the prompt. The
// builder re-truncates even pre-windowed history.
const contextMessageLimit = 6

const (
	contextHeader      = "**Previous Conversation Context:**"
	contextInstruction = "\n**Instructions**: Please provide a response that considers the conversation context above. If this is a follow-up question, reference previous information when appropriate."
)

// BuildContextPrompt renders prior turns and the new query into one prompt.
// An empty history returns the query verbatim so a fresh conversation pays no
// framing overhead.
func BuildContextPrompt(history []chat.Message, query string) string {
	if len(history) == 0 {
		return query
	}

	if len(history) > contextMessageLimit {
		history = history[len(history)-contextMessageLimit:]
	}

	parts := make([]string, 0, len(history)+3)
	parts = append(parts, contextHeader)

	for _, msg := range history {
		marker := "👤"
		if msg.Role == chat.RoleAssistant {
			marker = "🤖"
		}
		parts = append(parts, fmt.Sprintf("%s **%s**: %s", marker, roleTitle(msg.Role), msg.Content))
	}

	parts = append(parts, fmt.Sprintf("\n**Current Query**: %s", query))
	parts = append(parts, contextInstruction)

	return strings.Join(parts, "\n\n")
}

func roleTitle(role chat.Role) string {
	switch role {
	case chat.RoleAssistant:
		return "Assistant"
	case chat.RoleUser:
		return "User"
	default:
		return string(role)
	}
}
