package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	c.Translate.SourceLanguage = strings.TrimSpace(c.Translate.SourceLanguage)
	c.Translate.TargetLanguage = strings.TrimSpace(c.Translate.TargetLanguage)
	c.Output.Progress = strings.ToLower(strings.TrimSpace(c.Output.Progress))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Transcribe.ChunkMinutes <= 0 {
		c.Transcribe.ChunkMinutes = defaultChunkMinutes
	}
	if c.Output.Progress == "" {
		c.Output.Progress = defaultProgress
	}
	if strings.TrimSpace(c.Media.YTDLPPath) == "" {
		c.Media.YTDLPPath = defaultYTDLPPath
	}
	if c.Media.MaxHeight < minMaxHeight {
		c.Media.MaxHeight = minMaxHeight
	}
	if c.Media.OutputDir == "" {
		c.Media.OutputDir = defaultOutputDir
	}
}

// Validate checks enumerated settings. API keys are resolved later, per
// command, since most commands need only one of them.
func (c *Config) Validate() error {
	var errs []error

	switch c.Transcribe.Provider {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("transcribe.provider %q: use openai or gemini", c.Transcribe.Provider))
	}

	switch c.Translate.Provider {
	case "openai", "gemini", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("translate.provider %q: use openai, gemini or anthropic", c.Translate.Provider))
	}

	if c.Translate.SourceLanguage == "" || c.Translate.TargetLanguage == "" {
		errs = append(errs, errors.New("translate.source_language and translate.target_language are required"))
	}

	switch c.Output.Progress {
	case "stdout", "stderr", "none":
	default:
		errs = append(errs, fmt.Errorf("output.progress %q: use stdout, stderr or none", c.Output.Progress))
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: use console or json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// TranscribeAPIKey returns the configured key or the provider's environment
// variable.
func (c *Config) TranscribeAPIKey() (string, string) {
	return apiKey(c.Transcribe.APIKey, c.Transcribe.Provider)
}

func (c *Config) TranslateAPIKey() (string, string) {
	return apiKey(c.Translate.APIKey, c.Translate.Provider)
}

// apiKey returns the key and the environment variable consulted for it
func apiKey(configured, provider string) (string, string) {
	envVar := EnvVarForProvider(provider)
	if configured != "" {
		return configured, envVar
	}
	return os.Getenv(envVar), envVar
}

func EnvVarForProvider(provider string) string {
	switch provider {
	case "gemini":
		return "GEMINI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return "API_KEY"
	}
}
