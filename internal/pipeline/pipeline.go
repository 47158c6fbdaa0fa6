// Package pipeline wires segment producers, translators and the SRT codec
// into the emit and reparse-translate runs.
package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/captionforge/captionforge/internal/subtitle"
)

// ErrOutOfOrder is returned when a segment starts before the one preceding it.
var ErrOutOfOrder = errors.New("segment out of order")

// Result summarizes a finished run.
type Result struct {
	Entries    int
	Duration   float64 // end of the last caption, seconds
	Translated int     // lines sent to the translator
}

func writeAll(sink subtitle.Sink, entries []subtitle.Entry) error {
	out, err := sink()
	if err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}
	if err := subtitle.WriteSRT(out, entries); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write subtitles: %w", err)
	}
	return closeSink(out)
}

func closeSink(c io.Closer) error {
	if err := c.Close(); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}
	return nil
}
