// Package translate turns one subtitle line into another language through an
// LLM provider.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrModelUnavailable means the provider has no such model. It is fatal for
// the whole run and never retried.
var ErrModelUnavailable = errors.New("translation model unavailable")

// Translator translates a single non-empty line.
type Translator interface {
	TranslateLine(ctx context.Context, line string) (string, error)
}

// single text item to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated text item
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

type Options struct {
	Pair    Pair
	Model   string
	Prompt  string
	BaseURL string
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.Pair.IsZero() {
		return nil, fmt.Errorf("language pair is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	fmt.Fprintf(&sb,
		"Translate the following %s subtitle texts to %s.\n\n",
		opts.Pair.SourceName(),
		opts.Pair.TargetName(),
	)

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Keep any formatting tags (like <i>, <b>, {\\an8}) unchanged.\n")
	sb.WriteString("3. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("4. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

// completeFunc sends a prompt and returns the raw model text
type completeFunc func(ctx context.Context, prompt string) (string, error)

// translateLine wraps line in a one-item request and unwraps the answer
func translateLine(
	ctx context.Context,
	opts Options,
	line string,
	complete completeFunc,
) (string, error) {
	if strings.TrimSpace(line) == "" {
		return line, nil
	}

	prompt := BuildPrompt(opts, []TranslationItem{{Index: 0, Text: line}})

	responseText, err := complete(ctx, prompt)
	if err != nil {
		return "", classifyError(err)
	}
	if strings.TrimSpace(responseText) == "" {
		return "", fmt.Errorf("empty translation response")
	}

	results, err := extractTranslationResults(cleanJSONResponse(responseText))
	if err != nil {
		return "", fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(responseText, 200),
		)
	}
	if len(results) != 1 {
		return "", fmt.Errorf("expected 1 result, got %d", len(results))
	}

	return strings.TrimSpace(results[0].Text), nil
}
