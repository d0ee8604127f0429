package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/rxplain/backend/internal/analysis/medical"
	"github.com/rxplain/backend/internal/llm"
	"github.com/rxplain/backend/internal/model/chat"
)

var ErrUnknownModel = errors.New("unknown model")

// Service dispatches rendered prompts to the configured provider clients and
// post-processes model output with safety warnings and disclaimers.
type Service struct {
	clients        map[string]llm.Client
	safetyWarnings bool
	disclaimers    bool
}

// Config toggles response post-processing.
type Config struct {
	SafetyWarningsEnabled bool
	DisclaimersEnabled    bool
}

// NewService wires the provider clients keyed by their public model name
// ("gemini", "gpt").
func NewService(clients map[string]llm.Client, cfg Config) *Service {
	return &Service{
		clients:        clients,
		safetyWarnings: cfg.SafetyWarningsEnabled,
		disclaimers:    cfg.DisclaimersEnabled,
	}
}

// Supports reports whether a provider client is configured for the model.
func (s *Service) Supports(model string) bool {
	_, ok := s.clients[model]
	return ok
}

// Generate renders the context prompt for the query and returns the model's
// raw reply.
func (s *Service) Generate(ctx context.Context, model string, history []chat.Message, query string, image *llm.Image) (string, error) {
	client, ok := s.clients[model]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	prompt := BuildContextPrompt(history, query)
	reply, err := client.Generate(ctx, prompt, image)
	if err != nil {
		return "", err
	}

	log.Printf("[ai] generated response model=%s history=%d length=%d", model, len(history), len(reply))
	return reply, nil
}

// Stream is the incremental variant of Generate; deltas go to onDelta and the
// concatenated raw reply is returned.
func (s *Service) Stream(ctx context.Context, model string, history []chat.Message, query string, image *llm.Image, onDelta func(string)) (string, error) {
	client, ok := s.clients[model]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	prompt := BuildContextPrompt(history, query)
	return client.Stream(ctx, prompt, image, onDelta)
}

// FormatResponse prepends triggered safety warnings and appends the
// category-appropriate disclaimer unless the reply already carries it.
func (s *Service) FormatResponse(reply, query string, category medical.Category) string {
	formatted := reply

	if s.safetyWarnings {
		if warnings := SafetyWarnings(query); len(warnings) > 0 {
			formatted = strings.Join(warnings, "\n\n") + "\n\n" + formatted
		}
	}

	if s.disclaimers {
		disclaimer := Disclaimer(category)
		if !strings.Contains(formatted, disclaimer) {
			formatted += "\n\n" + disclaimer
		}
	}

	return formatted
}
