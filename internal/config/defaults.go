package config

const (
	defaultConfigPath = "~/.config/captionforge/config.toml"

	defaultTranscribeProvider = "openai"
	defaultChunkMinutes       = 5
	defaultTranslateProvider  = "openai"
	defaultSourceLanguage     = "en"
	defaultTargetLanguage     = "ru"
	defaultProgress           = "stdout"
	defaultYTDLPPath          = "yt-dlp"
	defaultMaxHeight          = 1080
	minMaxHeight              = 144
	defaultOutputDir          = "."
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transcribe: Transcribe{
			Provider:     defaultTranscribeProvider,
			ChunkMinutes: defaultChunkMinutes,
		},
		Translate: Translate{
			Provider:       defaultTranslateProvider,
			SourceLanguage: defaultSourceLanguage,
			TargetLanguage: defaultTargetLanguage,
		},
		Output: Output{
			Progress: defaultProgress,
		},
		Media: Media{
			YTDLPPath: defaultYTDLPPath,
			MaxHeight: defaultMaxHeight,
			OutputDir: defaultOutputDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
