package cli

import (
	"context"
	"fmt"

	"github.com/captionforge/captionforge/internal/config"
	"github.com/captionforge/captionforge/internal/logging"
	"github.com/captionforge/captionforge/internal/media"
	"github.com/captionforge/captionforge/internal/transcribe"
	"github.com/captionforge/captionforge/internal/translate"
)

// providers builds the external collaborators; tests swap them for fakes
type providers struct {
	transcriber func(ctx context.Context, cfg *config.Config) (transcribe.FileTranscriber, error)
	translator  func(ctx context.Context, cfg *config.Config, pair translate.Pair) (translate.Translator, error)
	resolver    func(cfg *config.Config, logger *logging.Logger) media.Resolver
}

func defaultProviders() providers {
	return providers{
		transcriber: newTranscriber,
		translator:  newTranslator,
		resolver:    newResolver,
	}
}

func newTranscriber(ctx context.Context, cfg *config.Config) (transcribe.FileTranscriber, error) {
	key, envVar := cfg.TranscribeAPIKey()
	if key == "" && cfg.Transcribe.BaseURL == "" {
		return nil, fmt.Errorf(
			"%s API key is required: set transcribe.api_key or %s",
			cfg.Transcribe.Provider,
			envVar,
		)
	}

	return transcribe.Factory(ctx, transcribe.Provider(cfg.Transcribe.Provider), key, transcribe.Options{
		Language: cfg.Transcribe.Language,
		Model:    cfg.Transcribe.Model,
		Prompt:   cfg.Transcribe.Prompt,
		BaseURL:  cfg.Transcribe.BaseURL,
	})
}

func newTranslator(ctx context.Context, cfg *config.Config, pair translate.Pair) (translate.Translator, error) {
	key, envVar := cfg.TranslateAPIKey()
	if key == "" && cfg.Translate.BaseURL == "" {
		return nil, fmt.Errorf(
			"%s API key is required: set translate.api_key or %s",
			cfg.Translate.Provider,
			envVar,
		)
	}

	return translate.Factory(ctx, translate.Provider(cfg.Translate.Provider), key, translate.Options{
		Pair:    pair,
		Model:   cfg.Translate.Model,
		BaseURL: cfg.Translate.BaseURL,
	})
}

func newResolver(cfg *config.Config, logger *logging.Logger) media.Resolver {
	return media.NewYTDLP(cfg.Media.YTDLPPath, logger)
}
