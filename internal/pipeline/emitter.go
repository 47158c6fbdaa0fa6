package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/captionforge/captionforge/internal/logging"
	"github.com/captionforge/captionforge/internal/progress"
	"github.com/captionforge/captionforge/internal/subtitle"
	"github.com/captionforge/captionforge/internal/transcribe"
)

// Emitter turns a segment stream into an SRT file.
type Emitter struct {
	mode     subtitle.OutputMode
	reporter *progress.Reporter
	logger   *logging.Logger
	sampler  *logging.ProgressSampler
}

type EmitterOption func(*Emitter)

func WithMode(mode subtitle.OutputMode) EmitterOption {
	return func(e *Emitter) {
		e.mode = mode
	}
}

// WithProgress attaches telemetry; without it no PROGRESS lines are written.
func WithProgress(r *progress.Reporter) EmitterOption {
	return func(e *Emitter) {
		e.reporter = r
	}
}

func WithLogger(logger *logging.Logger) EmitterOption {
	return func(e *Emitter) {
		e.logger = logger
	}
}

func NewEmitter(opts ...EmitterOption) *Emitter {
	e := &Emitter{
		mode:    subtitle.ModeBuffered,
		logger:  logging.Nop(),
		sampler: logging.NewProgressSampler(0.1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drains src and writes the captions to sink. In buffered mode sink is
// opened only after src is exhausted, so any failure leaves no output.
func (e *Emitter) Run(
	ctx context.Context,
	src transcribe.Stream,
	sink subtitle.Sink,
) (Result, error) {
	e.reporter.Restart()
	e.sampler.Reset()

	var enc *subtitle.Encoder
	var out io.WriteCloser
	if e.mode == subtitle.ModeStreaming {
		var err error
		out, err = sink()
		if err != nil {
			return Result{}, fmt.Errorf("failed to write subtitles: %w", err)
		}
		enc = subtitle.NewEncoder(out)
	}

	var (
		entries []subtitle.Entry
		result  Result
		prev    float64
	)
	for {
		seg, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil {
			err = checkOrder(seg, prev, result.Entries)
		}
		var entry subtitle.Entry
		if err == nil {
			entry, err = subtitle.EntryFromSegment(seg)
			if err != nil {
				err = fmt.Errorf("segment %d: %w", result.Entries+1, err)
			}
		}
		if err == nil && enc != nil {
			if err = enc.Encode(entry); err == nil {
				err = enc.Flush()
			}
			if err != nil {
				err = fmt.Errorf("failed to write subtitles: %w", err)
			}
		}
		if err != nil {
			if out != nil {
				_ = out.Close()
			}
			return result, err
		}

		prev = seg.Start
		result.Entries++
		if seg.End > result.Duration {
			result.Duration = seg.End
		}
		if enc == nil {
			entries = append(entries, entry)
		}
		e.observe(seg.End)
	}

	if out != nil {
		return result, closeSink(out)
	}
	return result, writeAll(sink, entries)
}

// checkOrder rejects a segment that starts before its predecessor
func checkOrder(seg subtitle.Segment, prev float64, n int) error {
	if n > 0 && seg.Start < prev {
		return fmt.Errorf(
			"%w: segment %d starts at %.3f, before %.3f",
			ErrOutOfOrder,
			n+1,
			seg.Start,
			prev,
		)
	}
	return nil
}

func (e *Emitter) observe(position float64) {
	sample, ok := e.reporter.Observe(position)
	if !ok || !e.sampler.ShouldLog(sample.Ratio) {
		return
	}
	e.logger.Infow("Transcription progress",
		"percent", int(sample.Ratio*100),
		"position", sample.Position,
		"total", sample.Total,
		"speed", sample.Speed,
	)
}
