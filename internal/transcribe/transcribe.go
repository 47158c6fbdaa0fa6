// Package transcribe produces recognized speech segments for the emitter.
package transcribe

import (
	"context"
	"fmt"

	"github.com/captionforge/captionforge/internal/subtitle"
)

// transcription result for one audio file
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration float64 // seconds
}

// FileTranscriber recognizes speech in a single audio file. Segment times
// are relative to the start of that file.
type FileTranscriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // Source language of audio, empty lets the provider detect it
	Model    string
	Prompt   string
	BaseURL  string // OpenAI-compatible or proxy endpoint
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (FileTranscriber, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
