package conversation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rxplain/backend/internal/model/chat"
)

var ErrConversationNotFound = errors.New("conversation not found")

const (
	// DefaultMaxConversations caps how many conversations the process keeps.
	DefaultMaxConversations = 100
	// DefaultMaxMessages caps how many messages a single conversation keeps.
	DefaultMaxMessages = 50

	// DefaultTitle is used until the first user message supplies one.
	DefaultTitle = "New Conversation"
)

// Service owns the lifecycle of in-memory conversations. All state is lost on
// restart; that is deliberate, nothing here touches disk.
type Service struct {
	mu               sync.RWMutex
	conversations    map[string]*chat.Conversation
	maxConversations int
	maxMessages      int
	counter          uint64
}

// NewService builds a store with the given caps. Caps at or below zero are
// honored as "retain nothing" rather than rejected.
func NewService(maxConversations, maxMessages int) *Service {
	return &Service{
		conversations:    make(map[string]*chat.Conversation),
		maxConversations: maxConversations,
		maxMessages:      maxMessages,
	}
}

// Create provisions an empty conversation and returns its id. Ids embed a
// process-wide counter so bursts within one clock second cannot collide.
func (s *Service) Create(_ context.Context, title, model string) string {
	if title == "" {
		title = DefaultTitle
	}

	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	id := fmt.Sprintf("conv_%d_%d", now.Unix(), s.counter)

	s.conversations[id] = &chat.Conversation{
		ID:             id,
		Title:          title,
		Messages:       make([]chat.Message, 0, 16),
		CreatedAt:      now,
		UpdatedAt:      now,
		Model:          model,
		MedicalContext: chat.MedicalContext{},
	}

	s.evictLocked()
	return id
}

// Append adds a message to a conversation. The first user-role message also
// sets the conversation title from a truncated preview of its content.
func (s *Service) Append(_ context.Context, id string, role chat.Role, content, model string, isMedical bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return ErrConversationNotFound
	}

	msg := chat.Message{
		ID:             uuid.NewString(),
		Role:           role,
		Content:        content,
		Timestamp:      time.Now().UTC(),
		Model:          model,
		IsMedicalQuery: isMedical,
	}

	if role == chat.RoleUser && !hasUserMessage(conv.Messages) {
		conv.Title = chat.TitlePreview(content)
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.Timestamp

	if len(conv.Messages) > s.maxMessages {
		keep := s.maxMessages
		if keep < 0 {
			keep = 0
		}
		conv.Messages = append(conv.Messages[:0:0], conv.Messages[len(conv.Messages)-keep:]...)
	}

	return nil
}

// Get returns a copy of the conversation, detached from store internals.
func (s *Service) Get(_ context.Context, id string) (chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return chat.Conversation{}, ErrConversationNotFound
	}
	return copyConversation(conv), nil
}

// History returns the trailing maxMessages messages in chronological order.
// A non-positive limit returns the full transcript. Unknown ids yield an
// empty history rather than an error; callers that care use Get.
func (s *Service) History(_ context.Context, id string, maxMessages int) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}

	msgs := conv.Messages
	if maxMessages > 0 && len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}

	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Summarize returns the sidebar view of one conversation.
func (s *Service) Summarize(_ context.Context, id string) (chat.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return chat.Summary{}, ErrConversationNotFound
	}
	return summarize(conv), nil
}

// MergeMedicalContext folds the partial context into the conversation,
// overwriting same-named keys and leaving the rest intact.
func (s *Service) MergeMedicalContext(_ context.Context, id string, partial chat.MedicalContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return ErrConversationNotFound
	}

	for k, v := range partial {
		conv.MedicalContext[k] = v
	}
	conv.UpdatedAt = time.Now().UTC()
	return nil
}

// ListAll returns one summary per live conversation, most recently updated
// first. Equal timestamps fall back to id order so output stays stable.
func (s *Service) ListAll(_ context.Context) []chat.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]chat.Summary, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, summarize(conv))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete removes a conversation. Deleting an unknown id reports
// ErrConversationNotFound and changes nothing.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrConversationNotFound
	}
	delete(s.conversations, id)
	return nil
}

// Len reports how many conversations are currently stored.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// evictLocked drops least-recently-updated conversations until the store is
// back at its cap. Caller holds the write lock.
func (s *Service) evictLocked() {
	excess := len(s.conversations) - s.maxConversations
	if s.maxConversations < 0 {
		excess = len(s.conversations)
	}
	if excess <= 0 {
		return
	}

	type entry struct {
		id        string
		updatedAt time.Time
	}
	entries := make([]entry, 0, len(s.conversations))
	for id, conv := range s.conversations {
		entries = append(entries, entry{id: id, updatedAt: conv.UpdatedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].updatedAt.Equal(entries[j].updatedAt) {
			return entries[i].updatedAt.Before(entries[j].updatedAt)
		}
		return entries[i].id < entries[j].id
	})

	for i := 0; i < excess; i++ {
		delete(s.conversations, entries[i].id)
	}
}

func hasUserMessage(msgs []chat.Message) bool {
	for _, m := range msgs {
		if m.Role == chat.RoleUser {
			return true
		}
	}
	return false
}

func summarize(conv *chat.Conversation) chat.Summary {
	return chat.Summary{
		ID:             conv.ID,
		Title:          conv.Title,
		MessageCount:   len(conv.Messages),
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.UpdatedAt,
		Model:          conv.Model,
		MedicalContext: copyContext(conv.MedicalContext),
	}
}

func copyConversation(conv *chat.Conversation) chat.Conversation {
	out := *conv
	out.Messages = make([]chat.Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	out.MedicalContext = copyContext(conv.MedicalContext)
	return out
}

func copyContext(mc chat.MedicalContext) chat.MedicalContext {
	out := make(chat.MedicalContext, len(mc))
	for k, v := range mc {
		out[k] = v
	}
	return out
}
