package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse indicates the provider answered without any text. Callers
// treat it like any other upstream failure.
var ErrEmptyResponse = errors.New("empty response from model")

// Image is an inline attachment forwarded to providers that accept one.
type Image struct {
	MIMEType string
	Data     []byte
}

// Client is the outbound boundary to a hosted generative model: one rendered
// prompt in, text out. Stream delivers incremental text through onDelta and
// returns the concatenated result.
type Client interface {
	Generate(ctx context.Context, prompt string, image *Image) (string, error)
	Stream(ctx context.Context, prompt string, image *Image, onDelta func(delta string)) (string, error)
}
