package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/captionforge/captionforge/internal/audio"
	"github.com/captionforge/captionforge/internal/pipeline"
	"github.com/captionforge/captionforge/internal/progress"
	"github.com/captionforge/captionforge/internal/subtitle"
	"github.com/captionforge/captionforge/internal/transcribe"
)

func newEmitCommand(a *app) *cobra.Command {
	var (
		provider     string
		language     string
		chunkMinutes int
		streaming    bool
		progressTo   string
	)

	cmd := &cobra.Command{
		Use:   "emit <source> <output-file> [model] [expected-duration]",
		Short: "Transcribe a source into an SRT file",
		Long: `Transcribe speech into numbered, timed SRT captions.

The source is one of:
  -                 newline-delimited JSON segments on stdin
  file.jsonl        the same, read from a file (.jsonl or .ndjson)
  audio/video file  normalized with ffmpeg and transcribed in chunks
  http(s) URL       downloaded with yt-dlp, then transcribed

expected-duration (seconds, or a duration such as 1h2m) enables the PROGRESS
lines; for media files the probed duration is used when it is omitted.`,
		Example: `  captionforge emit talk.mp4 talk.srt
  captionforge emit talk.mp3 talk.srt whisper-1 --stream
  recognizer | captionforge emit - out.srt "" 3600 --progress stderr`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("provider") {
				a.cfg.Transcribe.Provider = strings.ToLower(strings.TrimSpace(provider))
			}
			if flags.Changed("language") {
				a.cfg.Transcribe.Language = language
			}
			if flags.Changed("chunk-minutes") {
				if chunkMinutes <= 0 {
					return fmt.Errorf("--chunk-minutes must be positive, got %d", chunkMinutes)
				}
				a.cfg.Transcribe.ChunkMinutes = chunkMinutes
			}
			if flags.Changed("stream") {
				a.cfg.Output.Streaming = streaming
			}
			if flags.Changed("progress") {
				a.cfg.Output.Progress = strings.ToLower(strings.TrimSpace(progressTo))
			}
			if len(args) > 2 && strings.TrimSpace(args[2]) != "" {
				a.cfg.Transcribe.Model = strings.TrimSpace(args[2])
			}

			expected := -1.0
			if len(args) > 3 {
				d, err := parseExpectedDuration(args[3])
				if err != nil {
					return err
				}
				expected = d
			}

			return a.runEmit(cmd, args[0], args[1], expected)
		},
	}

	cmd.Flags().
		StringVar(&provider, "provider", "", "Transcription provider (openai, gemini)")
	cmd.Flags().
		StringVarP(&language, "language", "l", "", "Language of the audio (empty for auto-detect)")
	cmd.Flags().
		IntVar(&chunkMinutes, "chunk-minutes", 0, "Minutes of audio per transcription request")
	cmd.Flags().
		BoolVar(&streaming, "stream", false, "Write each caption as soon as it is recognized")
	cmd.Flags().
		StringVar(&progressTo, "progress", "", "Where PROGRESS lines go (stdout, stderr, none)")

	return cmd
}

func (a *app) runEmit(cmd *cobra.Command, source, output string, expected float64) error {
	ctx := cmd.Context()
	logger := a.logger

	progressOut, err := progressWriter(cmd, a.cfg.Output.Progress)
	if err != nil {
		return err
	}

	src, total, cleanup, err := a.openSource(ctx, cmd.InOrStdin(), source)
	if err != nil {
		return err
	}
	defer cleanup()

	if expected >= 0 {
		total = expected
	}

	mode := subtitle.ModeBuffered
	if a.cfg.Output.Streaming {
		mode = subtitle.ModeStreaming
	}

	reporter := progress.NewReporter(total, progressOut,
		progress.WithErrorHandler(func(err error) {
			logger.Warnw("Progress output failed", "error", err)
		}),
	)
	emitter := pipeline.NewEmitter(
		pipeline.WithMode(mode),
		pipeline.WithProgress(reporter),
		pipeline.WithLogger(logger),
	)

	logger.Infow("Emitting subtitles",
		"source", source,
		"output", output,
		"mode", mode,
		"total", total,
	)

	start := time.Now()
	result, err := emitter.Run(ctx, src, subtitle.FileSink(output))
	if err != nil {
		return err
	}

	logger.Infow("Subtitles written",
		"output", output,
		"entries", result.Entries,
		"duration", subtitle.FormatTimestamp(result.Duration),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// openSource picks the segment producer for source. The returned cleanup is
// always safe to call.
func (a *app) openSource(
	ctx context.Context,
	stdin io.Reader,
	source string,
) (transcribe.Stream, float64, func(), error) {
	noop := func() {}

	switch {
	case source == "-":
		return transcribe.NewJSONLStream(stdin), 0, noop, nil

	case isSegmentFile(source):
		f, err := os.Open(source)
		if err != nil {
			return nil, 0, noop, fmt.Errorf("failed to open segments: %w", err)
		}
		return transcribe.NewJSONLStream(f), 0, func() { _ = f.Close() }, nil

	case isURL(source):
		workDir, err := os.MkdirTemp("", "captionforge-fetch-*")
		if err != nil {
			return nil, 0, noop, fmt.Errorf("failed to create temp directory: %w", err)
		}
		resolver := a.providers.resolver(a.cfg, a.logger)
		asset, err := resolver.Resolve(ctx, source, filepath.Join(workDir, "source.mp4"), a.cfg.Media.MaxHeight)
		if err != nil {
			_ = os.RemoveAll(workDir)
			return nil, 0, noop, err
		}
		stream, total, cleanup, err := a.openMedia(ctx, asset.Path)
		if err != nil {
			_ = os.RemoveAll(workDir)
			return nil, 0, noop, err
		}
		return stream, total, func() {
			cleanup()
			_ = os.RemoveAll(workDir)
		}, nil

	case audio.IsMediaFile(source):
		return a.openMedia(ctx, source)

	default:
		return nil, 0, noop, fmt.Errorf(
			"unsupported source %q: use -, a .jsonl file, an audio/video file or a URL",
			source,
		)
	}
}

func (a *app) openMedia(ctx context.Context, path string) (transcribe.Stream, float64, func(), error) {
	noop := func() {}

	workDir, err := os.MkdirTemp("", "captionforge-audio-*")
	if err != nil {
		return nil, 0, noop, fmt.Errorf("failed to create temp directory: %w", err)
	}
	removeWork := func() { _ = os.RemoveAll(workDir) }

	// fail on a missing key before spending time on ffmpeg
	tr, err := a.providers.transcriber(ctx, a.cfg)
	if err != nil {
		removeWork()
		return nil, 0, noop, err
	}

	audioPath := filepath.Join(workDir, "audio.mp3")
	a.logger.Infow("Preparing audio", "input", path)
	if err := audio.Normalize(ctx, path, audioPath, audio.DefaultCompressionOptions()); err != nil {
		removeWork()
		return nil, 0, noop, err
	}

	duration, err := audio.Probe(ctx, audioPath)
	if err != nil {
		removeWork()
		return nil, 0, noop, err
	}

	chunkSeconds := float64(a.cfg.Transcribe.ChunkMinutes * 60)
	stream, err := transcribe.NewChunkedStream(audioPath, duration, chunkSeconds, tr,
		transcribe.WithLogger(a.logger),
	)
	if err != nil {
		removeWork()
		return nil, 0, noop, err
	}

	a.logger.Infow("Audio ready",
		"duration", subtitle.FormatTimestamp(duration),
		"chunks", stream.Chunks(),
		"provider", a.cfg.Transcribe.Provider,
	)

	return stream, duration, func() {
		_ = stream.Close()
		removeWork()
	}, nil
}

func progressWriter(cmd *cobra.Command, target string) (io.Writer, error) {
	switch target {
	case "stdout", "":
		return cmd.OutOrStdout(), nil
	case "stderr":
		return cmd.ErrOrStderr(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("--progress %q: use stdout, stderr or none", target)
	}
}

// parseExpectedDuration accepts plain seconds ("3600", "12.5") or a Go
// duration ("1h2m"). Empty means unknown.
func parseExpectedDuration(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return -1, nil
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return 0, fmt.Errorf("invalid expected duration %q", value)
		}
		return seconds, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid expected duration %q", value)
	}
	if d < 0 {
		return 0, fmt.Errorf("expected duration must not be negative, got %s", value)
	}
	return d.Seconds(), nil
}

func isSegmentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return true
	}
	return false
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
