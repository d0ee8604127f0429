package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/rxplain/backend/internal/analysis/medical"
	modelchat "github.com/rxplain/backend/internal/model/chat"
	aiService "github.com/rxplain/backend/internal/service/ai"
	"github.com/rxplain/backend/internal/service/conversation"
	"github.com/rxplain/backend/pkg/utils"
)

// Handler streams chat replies over Server-Sent Events while keeping the
// same conversation bookkeeping as the REST chat endpoint.
type Handler struct {
	store         *conversation.Service
	ai            *aiService.Service
	historyWindow int
	contextWindow int
}

// New creates a stream handler.
func New(store *conversation.Service, ai *aiService.Service, historyWindow, contextWindow int) *Handler {
	return &Handler{
		store:         store,
		ai:            ai,
		historyWindow: historyWindow,
		contextWindow: contextWindow,
	}
}

// Event is a single SSE frame.
type Event struct {
	Event          string                   `json:"event"`
	Content        string                   `json:"content,omitempty"`
	ConversationID string                   `json:"conversation_id,omitempty"`
	IsMedicalQuery bool                     `json:"is_medical_query,omitempty"`
	MedicalContext modelchat.MedicalContext `json:"medical_context,omitempty"`
	Finished       bool                     `json:"finished,omitempty"`
	Error          string                   `json:"error,omitempty"`
}

// HandleStreamRequest runs one streamed chat turn for the conversation.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, conversationID, prompt, model string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errors.New("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	if conversationID == "" {
		conversationID = h.store.Create(ctx, "", model)
	} else if _, err := h.store.Get(ctx, conversationID); err != nil {
		h.sendError(w, flusher, "conversation not found")
		return err
	}

	category := medical.Classify(prompt)
	isMedical := medical.IsMedical(prompt)
	history := h.store.History(ctx, conversationID, h.historyWindow)

	if err := h.store.Append(ctx, conversationID, modelchat.RoleUser, prompt, model, isMedical); err != nil {
		h.sendError(w, flusher, "conversation not found")
		return err
	}

	h.send(w, flusher, Event{
		Event:          "start",
		ConversationID: conversationID,
		IsMedicalQuery: isMedical,
	})

	reply, err := h.ai.Stream(ctx, model, history, prompt, nil, func(delta string) {
		h.send(w, flusher, Event{
			Event:          "delta",
			ConversationID: conversationID,
			Content:        delta,
		})
	})
	if err != nil {
		h.sendError(w, flusher, fmt.Sprintf("ai generation failed: %v", err))
		return err
	}

	formatted := h.ai.FormatResponse(reply, prompt, category)

	// The disclaimers are not streamed as deltas; the final message frame
	// carries the complete, post-processed text.
	h.send(w, flusher, Event{
		Event:          "message",
		ConversationID: conversationID,
		Content:        formatted,
	})

	if err := h.store.Append(ctx, conversationID, modelchat.RoleAssistant, formatted, model, false); err != nil {
		log.Printf("[stream] failed to save assistant turn conversation=%s: %v", conversationID, err)
	}

	extracted := medical.ExtractContext(h.store.History(ctx, conversationID, h.contextWindow))
	if err := h.store.MergeMedicalContext(ctx, conversationID, extracted); err != nil {
		log.Printf("[stream] failed to merge medical context conversation=%s: %v", conversationID, err)
	}

	h.send(w, flusher, Event{
		Event:          "end",
		ConversationID: conversationID,
		MedicalContext: extracted,
		Finished:       true,
	})

	log.Printf("[stream] completed turn conversation=%s model=%s", conversationID, model)
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, event Event) {
	if err := utils.SendSSEChunk(w, flusher, event); err != nil {
		log.Printf("[stream] failed to send event %q: %v", event.Event, err)
	}
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, message string) {
	h.send(w, flusher, Event{Event: "error", Error: message})
}
