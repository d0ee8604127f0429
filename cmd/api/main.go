package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rxplain/backend/internal/config"
	"github.com/rxplain/backend/internal/handler"
	chatHandler "github.com/rxplain/backend/internal/handler/chat"
	streamHandler "github.com/rxplain/backend/internal/handler/stream"
	"github.com/rxplain/backend/internal/llm"
	aiService "github.com/rxplain/backend/internal/service/ai"
	"github.com/rxplain/backend/internal/service/conversation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store := conversation.NewService(cfg.Memory.MaxConversations, cfg.Memory.MaxMessages)

	clients := make(map[string]llm.Client, 2)
	if cfg.AI.GeminiEnabled() {
		gemini, err := llm.NewGeminiClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, aiService.SystemPrompt)
		if err != nil {
			log.Fatalf("failed to initialize gemini client: %v", err)
		}
		defer gemini.Close()
		clients["gemini"] = gemini
		log.Printf("gemini provider initialized model=%s", cfg.AI.GeminiModel)
	}
	if cfg.AI.GPTEnabled() {
		gpt, err := llm.NewOpenAIClient(cfg.AI.OpenAIAPIKey, cfg.AI.GPTModel, aiService.SystemPrompt, cfg.AI.GPTMaxTokens, cfg.AI.GPTTemperature)
		if err != nil {
			log.Fatalf("failed to initialize openai client: %v", err)
		}
		clients["gpt"] = gpt
		log.Printf("gpt provider initialized model=%s", cfg.AI.GPTModel)
	}

	aiSvc := aiService.NewService(clients, aiService.Config{
		SafetyWarningsEnabled: cfg.Safety.WarningsEnabled,
		DisclaimersEnabled:    cfg.Safety.DisclaimersEnabled,
	})

	defaultModel := chatHandler.DefaultModel
	if !aiSvc.Supports(defaultModel) {
		defaultModel = "gpt"
	}

	chat := chatHandler.New(store, aiSvc, chatHandler.Options{
		HistoryWindow: cfg.Memory.HistoryWindow,
		ContextWindow: cfg.Memory.ContextWindow,
		MaxImageBytes: cfg.Server.MaxImageBytes,
		DefaultModel:  defaultModel,
	})
	stream := streamHandler.New(store, aiSvc, cfg.Memory.HistoryWindow, cfg.Memory.ContextWindow)

	router := handler.NewRouter(handler.Deps{
		Chat:           chat,
		Stream:         stream,
		DefaultModel:   defaultModel,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Rxplain backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
