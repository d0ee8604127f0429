package chat

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"log"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-chi/chi/v5"

	"github.com/rxplain/backend/internal/analysis/medical"
	"github.com/rxplain/backend/internal/llm"
	modelchat "github.com/rxplain/backend/internal/model/chat"
	aiService "github.com/rxplain/backend/internal/service/ai"
	"github.com/rxplain/backend/internal/service/conversation"
	"github.com/rxplain/backend/pkg/utils"
)

// DefaultModel is used when a request does not name a backend.
const DefaultModel = "gemini"

// Handler orchestrates a chat turn: resolve conversation, classify, build
// context, call the model, persist both turns, refresh medical context.
type Handler struct {
	store         *conversation.Service
	ai            *aiService.Service
	historyWindow int
	contextWindow int
	maxImageBytes int64
	defaultModel  string
}

// Options carries the orchestration windows and limits.
type Options struct {
	HistoryWindow int
	ContextWindow int
	MaxImageBytes int64
	DefaultModel  string
}

// New creates the chat handler.
func New(store *conversation.Service, ai *aiService.Service, opts Options) *Handler {
	if opts.DefaultModel == "" {
		opts.DefaultModel = DefaultModel
	}
	return &Handler{
		store:         store,
		ai:            ai,
		historyWindow: opts.HistoryWindow,
		contextWindow: opts.ContextWindow,
		maxImageBytes: opts.MaxImageBytes,
		defaultModel:  opts.DefaultModel,
	}
}

// RegisterRoutes attaches the chat and conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/conversations", h.handleListConversations)
	r.Get("/conversations/{conversationID}", h.handleGetConversation)
	r.Delete("/conversations/{conversationID}", h.handleDeleteConversation)
}

type chatRequest struct {
	Prompt         string `json:"prompt"`
	ConversationID string `json:"conversation_id"`
	Model          string `json:"model"`
	Image          string `json:"image"`
}

type chatResponse struct {
	ConversationID string                   `json:"conversation_id"`
	Response       string                   `json:"response"`
	Model          string                   `json:"model"`
	IsMedicalQuery bool                     `json:"is_medical_query"`
	QueryCategory  medical.Category         `json:"query_category"`
	MedicalContext modelchat.MedicalContext `json:"medical_context"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := strings.TrimSpace(payload.Prompt)
	if prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	model := payload.Model
	if model == "" {
		model = h.defaultModel
	}
	if !h.ai.Supports(model) {
		utils.RespondError(w, http.StatusBadRequest, "invalid model")
		return
	}

	attachment, err := h.decodeImage(payload.Image)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	conversationID := payload.ConversationID
	if conversationID == "" {
		conversationID = h.store.Create(ctx, "", model)
	} else if _, err := h.store.Get(ctx, conversationID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}

	category := medical.Classify(prompt)
	isMedical := medical.IsMedical(prompt)

	// Context comes from turns before this one; the new query is rendered
	// separately by the prompt builder.
	history := h.store.History(ctx, conversationID, h.historyWindow)

	if err := h.store.Append(ctx, conversationID, modelchat.RoleUser, prompt, model, isMedical); err != nil {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}

	reply, err := h.ai.Generate(ctx, model, history, prompt, attachment)
	if err != nil {
		// The user turn stays; the conversation is just one turn shorter.
		log.Printf("[chat] generation failed conversation=%s model=%s: %v", conversationID, model, err)
		utils.RespondError(w, http.StatusBadGateway, "ai generation failed")
		return
	}

	formatted := h.ai.FormatResponse(reply, prompt, category)

	if err := h.store.Append(ctx, conversationID, modelchat.RoleAssistant, formatted, model, false); err != nil {
		log.Printf("[chat] failed to save assistant turn conversation=%s: %v", conversationID, err)
	}

	extracted := medical.ExtractContext(h.store.History(ctx, conversationID, h.contextWindow))
	if err := h.store.MergeMedicalContext(ctx, conversationID, extracted); err != nil {
		log.Printf("[chat] failed to merge medical context conversation=%s: %v", conversationID, err)
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		ConversationID: conversationID,
		Response:       formatted,
		Model:          model,
		IsMedicalQuery: isMedical,
		QueryCategory:  category,
		MedicalContext: extracted,
	})
}

func (h *Handler) handleListConversations(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"conversations": h.store.ListAll(r.Context()),
	})
}

func (h *Handler) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	summary, err := h.store.Summarize(r.Context(), id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	if err := h.store.Delete(r.Context(), id); err != nil {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeImage validates and decodes an optional base64 image attachment.
// Only presence, size, and a decodable image header matter here; the raw
// bytes pass through to the provider untouched.
func (h *Handler) decodeImage(encoded string) (*llm.Image, error) {
	if encoded == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.New("image must be base64 encoded")
	}
	if h.maxImageBytes > 0 && int64(len(data)) > h.maxImageBytes {
		return nil, errors.New("image exceeds size limit")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.New("unsupported image format")
	}

	return &llm.Image{
		MIMEType: http.DetectContentType(data),
		Data:     data,
	}, nil
}
