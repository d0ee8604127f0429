package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient calls the Google Gemini API. It is the only provider that
// accepts inline image bytes.
type GeminiClient struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewGeminiClient dials the Gemini API with the given key and model name. The
// system prompt rides along as a system instruction on every request.
func NewGeminiClient(ctx context.Context, apiKey, model, systemPrompt string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model, systemPrompt: systemPrompt}, nil
}

// Generate sends the prompt (and optional image) and returns the full text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, image *Image) (string, error) {
	model := c.generativeModel()

	resp, err := model.GenerateContent(ctx, buildParts(prompt, image)...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Stream sends the prompt and forwards each text chunk to onDelta.
func (c *GeminiClient) Stream(ctx context.Context, prompt string, image *Image, onDelta func(string)) (string, error) {
	model := c.generativeModel()
	iter := model.GenerateContentStream(ctx, buildParts(prompt, image)...)

	var full strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("gemini stream: %w", err)
		}
		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		onDelta(chunk)
	}

	if full.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return full.String(), nil
}

func (c *GeminiClient) generativeModel() *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.model)
	if c.systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(c.systemPrompt)},
		}
	}
	return model
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func buildParts(prompt string, image *Image) []genai.Part {
	parts := []genai.Part{genai.Text(prompt)}
	if image != nil {
		// genai wants the bare subtype, e.g. "png" rather than "image/png".
		format := strings.TrimPrefix(image.MIMEType, "image/")
		parts = append(parts, genai.ImageData(format, image.Data))
	}
	return parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
