// Package config loads the captionforge TOML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Transcribe configures the speech recognition provider used by emit.
type Transcribe struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	Language     string `toml:"language"`
	Prompt       string `toml:"prompt"`
	ChunkMinutes int    `toml:"chunk_minutes"`
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
}

// Translate configures the line translator used by reparse-translate.
type Translate struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	SourceLanguage string `toml:"source_language"`
	TargetLanguage string `toml:"target_language"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

// Output controls how subtitle files and telemetry are written.
type Output struct {
	Streaming bool   `toml:"streaming"`
	Progress  string `toml:"progress"` // stdout, stderr or none
	Strict    bool   `toml:"strict"`
}

// Media configures the yt-dlp backed resolver.
type Media struct {
	YTDLPPath string `toml:"ytdlp_path"`
	MaxHeight int    `toml:"max_height"`
	OutputDir string `toml:"output_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values.
type Config struct {
	Transcribe Transcribe `toml:"transcribe"`
	Translate  Translate  `toml:"translate"`
	Output     Output     `toml:"output"`
	Media      Media      `toml:"media"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load parses and validates the file at path, or the default location when
// path is empty. A missing file yields defaults. The returned bool reports
// whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := decode(file, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolved, exists, nil
}

func decode(r io.Reader, cfg *Config) error {
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config: %s", strict.String())
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// SampleConfig returns the commented sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path, refusing to replace an
// existing file.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	file, err := os.OpenFile(expanded, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		_ = file.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return file.Close()
}

// Encode renders cfg as TOML. API keys are masked.
func (c Config) Encode(w io.Writer) error {
	masked := c
	masked.Transcribe.APIKey = mask(c.Transcribe.APIKey)
	masked.Translate.APIKey = mask(c.Translate.APIKey)

	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(masked); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
