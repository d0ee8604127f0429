package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/rxplain/backend/internal/handler/chat"
	streamHandler "github.com/rxplain/backend/internal/handler/stream"
	"github.com/rxplain/backend/internal/middleware"
	"github.com/rxplain/backend/pkg/utils"
)

// Deps carries everything the router mounts.
type Deps struct {
	Chat           *chatHandler.Handler
	Stream         *streamHandler.Handler
	DefaultModel   string
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(deps.AllowedOrigins))

	r.Route("/api", func(api chi.Router) {
		deps.Chat.RegisterRoutes(api)

		api.Get("/chat/stream", func(w http.ResponseWriter, r *http.Request) {
			prompt := r.URL.Query().Get("prompt")
			if prompt == "" {
				utils.RespondError(w, http.StatusBadRequest, "prompt query parameter is required")
				return
			}

			model := r.URL.Query().Get("model")
			if model == "" {
				model = deps.DefaultModel
			}

			conversationID := r.URL.Query().Get("conversation_id")
			if err := deps.Stream.HandleStreamRequest(r.Context(), w, conversationID, prompt, model); err != nil {
				// The stream already carried an error frame; nothing more to
				// send on this connection.
				return
			}
		})

		api.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
