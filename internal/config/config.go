package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Memory MemoryConfig
	Safety SafetyConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	MaxImageBytes  int64
}

// AIConfig holds provider credentials and model selection.
type AIConfig struct {
	GeminiAPIKey   string
	OpenAIAPIKey   string
	GeminiModel    string
	GPTModel       string
	GPTMaxTokens   int
	GPTTemperature float32
}

// MemoryConfig bounds the in-process conversation store.
type MemoryConfig struct {
	MaxConversations int
	MaxMessages      int
	// HistoryWindow is how many trailing messages feed the model prompt.
	HistoryWindow int
	// ContextWindow is how many trailing messages the extractor scans.
	ContextWindow int
}

// SafetyConfig toggles response post-processing.
type SafetyConfig struct {
	WarningsEnabled    bool
	DisclaimersEnabled bool
}

// GeminiEnabled reports whether the Gemini provider can be initialized.
func (c AIConfig) GeminiEnabled() bool { return c.GeminiAPIKey != "" }

// GPTEnabled reports whether the OpenAI provider can be initialized.
func (c AIConfig) GPTEnabled() bool { return c.OpenAIAPIKey != "" }

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	memory, err := loadMemoryConfig()
	if err != nil {
		return nil, err
	}

	safety, err := loadSafetyConfig()
	if err != nil {
		return nil, err
	}

	if !ai.GeminiEnabled() && !ai.GPTEnabled() {
		return nil, fmt.Errorf("at least one of GEMINI_API_KEY or OPENAI_API_KEY must be set")
	}

	return &Config{Server: server, AI: ai, Memory: memory, Safety: safety}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	maxImage, err := parseIntEnv("MAX_IMAGE_BYTES", 5<<20)
	if err != nil {
		return ServerConfig{}, err
	}

	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3001",
	}
	if raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return ServerConfig{Addr: addr, AllowedOrigins: origins, MaxImageBytes: int64(maxImage)}, nil
}

func loadAIConfig() (AIConfig, error) {
	maxTokens, err := parseIntEnv("GPT_MAX_TOKENS", 1000)
	if err != nil {
		return AIConfig{}, err
	}

	temperature, err := parseFloatEnv("GPT_TEMPERATURE", 0.7)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		GeminiAPIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		GeminiModel:    getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GPTModel:       getEnvOrDefault("GPT_MODEL", "gpt-4"),
		GPTMaxTokens:   maxTokens,
		GPTTemperature: float32(temperature),
	}, nil
}

func loadMemoryConfig() (MemoryConfig, error) {
	maxConversations, err := parseIntEnv("MAX_CONVERSATIONS", 100)
	if err != nil {
		return MemoryConfig{}, err
	}

	maxMessages, err := parseIntEnv("MAX_MESSAGES_PER_CONVERSATION", 50)
	if err != nil {
		return MemoryConfig{}, err
	}

	historyWindow, err := parseIntEnv("HISTORY_WINDOW", 10)
	if err != nil {
		return MemoryConfig{}, err
	}

	contextWindow, err := parseIntEnv("CONTEXT_WINDOW", 50)
	if err != nil {
		return MemoryConfig{}, err
	}

	return MemoryConfig{
		MaxConversations: maxConversations,
		MaxMessages:      maxMessages,
		HistoryWindow:    historyWindow,
		ContextWindow:    contextWindow,
	}, nil
}

func loadSafetyConfig() (SafetyConfig, error) {
	warnings, err := parseBoolEnv("SAFETY_WARNINGS_ENABLED", true)
	if err != nil {
		return SafetyConfig{}, err
	}

	disclaimers, err := parseBoolEnv("MEDICAL_DISCLAIMERS_ENABLED", true)
	if err != nil {
		return SafetyConfig{}, err
	}

	return SafetyConfig{WarningsEnabled: warnings, DisclaimersEnabled: disclaimers}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
