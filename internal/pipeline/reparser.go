package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/captionforge/captionforge/internal/logging"
	"github.com/captionforge/captionforge/internal/subtitle"
	"github.com/captionforge/captionforge/internal/translate"
)

// Reparser reads an SRT file, translates every caption line and writes the
// result with the original timing lines.
type Reparser struct {
	Translator translate.Translator
	Strict     bool
	Logger     *logging.Logger

	// Decode reads the input; nil means SRT
	Decode subtitle.Decoder
}

func (r *Reparser) Run(ctx context.Context, in io.Reader, sink subtitle.Sink) (Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	decode := r.Decode
	if decode == nil {
		decode = subtitle.Parse
	}

	entries, err := decode(in, subtitle.ParseOptions{Strict: r.Strict})
	if err != nil {
		return Result{}, err
	}
	logger.Infow("Parsed subtitles", "entries", len(entries))

	translated, calls, err := translateEntries(ctx, entries, r.Translator)
	if err != nil {
		return Result{Translated: calls}, err
	}

	if err := writeAll(sink, translated); err != nil {
		return Result{Translated: calls}, err
	}

	result := Result{Entries: len(translated), Translated: calls}
	if n := len(translated); n > 0 {
		if _, end, err := subtitle.ParseRange(translated[n-1].Timing); err == nil {
			result.Duration = end
		}
	}
	return result, nil
}

// TranslateEntries replaces every non-empty line of every entry, in file
// order. Blank lines stay blank and are not sent to tr. The first error stops
// the run.
func TranslateEntries(
	ctx context.Context,
	entries []subtitle.Entry,
	tr translate.Translator,
) ([]subtitle.Entry, error) {
	out, _, err := translateEntries(ctx, entries, tr)
	return out, err
}

func translateEntries(
	ctx context.Context,
	entries []subtitle.Entry,
	tr translate.Translator,
) ([]subtitle.Entry, int, error) {
	out := make([]subtitle.Entry, 0, len(entries))
	calls := 0

	for i, entry := range entries {
		lines := make([]string, len(entry.Lines))
		for j, line := range entry.Lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, calls, err
			}

			calls++
			translated, err := tr.TranslateLine(ctx, line)
			if err != nil {
				return nil, calls, fmt.Errorf("entry %d line %d: %w", i+1, j+1, err)
			}
			lines[j] = translated
		}
		out = append(out, entry.WithLines(lines))
	}
	return out, calls, nil
}
