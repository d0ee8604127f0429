package stream

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rxplain/backend/internal/llm"
	modelchat "github.com/rxplain/backend/internal/model/chat"
	aiService "github.com/rxplain/backend/internal/service/ai"
	"github.com/rxplain/backend/internal/service/conversation"
)

type stubClient struct {
	chunks []string
	err    error
}

func (s *stubClient) Generate(_ context.Context, _ string, _ *llm.Image) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return strings.Join(s.chunks, ""), nil
}

func (s *stubClient) Stream(_ context.Context, _ string, _ *llm.Image, onDelta func(string)) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for _, chunk := range s.chunks {
		onDelta(chunk)
	}
	return strings.Join(s.chunks, ""), nil
}

func setup(stub *stubClient) (*Handler, *conversation.Service) {
	store := conversation.NewService(100, 50)
	aiSvc := aiService.NewService(map[string]llm.Client{"gemini": stub}, aiService.Config{
		DisclaimersEnabled: true,
	})
	return New(store, aiSvc, 10, 50), store
}

func TestHandleStreamRequestEmitsDeltasAndPersistsTurns(t *testing.T) {
	handler, store := setup(&stubClient{chunks: []string{"Aspirin ", "thins blood."}})

	rec := httptest.NewRecorder()
	err := handler.HandleStreamRequest(context.Background(), rec, "", "what is aspirin?", "gemini")
	if err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	body := rec.Body.String()
	for _, want := range []string{`"event":"start"`, `"event":"delta"`, `"event":"message"`, `"event":"end"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("stream missing %s frame:\n%s", want, body)
		}
	}
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}

	summaries := store.ListAll(context.Background())
	if len(summaries) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(summaries))
	}
	history := store.History(context.Background(), summaries[0].ID, 0)
	if len(history) != 2 {
		t.Fatalf("expected 2 stored turns, got %d", len(history))
	}
	if history[1].Role != modelchat.RoleAssistant || !strings.Contains(history[1].Content, "Aspirin thins blood.") {
		t.Fatalf("assistant turn not persisted correctly: %+v", history[1])
	}
}

func TestHandleStreamRequestUnknownConversation(t *testing.T) {
	handler, _ := setup(&stubClient{chunks: []string{"unused"}})

	rec := httptest.NewRecorder()
	err := handler.HandleStreamRequest(context.Background(), rec, "conv_0_0", "hello", "gemini")
	if err == nil {
		t.Fatal("expected error for unknown conversation")
	}
	if !strings.Contains(rec.Body.String(), `"event":"error"`) {
		t.Fatalf("expected error frame, got:\n%s", rec.Body.String())
	}
}

func TestHandleStreamRequestUpstreamFailureKeepsUserTurn(t *testing.T) {
	handler, store := setup(&stubClient{err: errors.New("model unavailable")})

	rec := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), rec, "", "what is aspirin?", "gemini"); err == nil {
		t.Fatal("expected upstream error")
	}

	summaries := store.ListAll(context.Background())
	if len(summaries) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(summaries))
	}
	history := store.History(context.Background(), summaries[0].ID, 0)
	if len(history) != 1 || history[0].Role != modelchat.RoleUser {
		t.Fatalf("expected only the user turn retained, got %d messages", len(history))
	}
}
