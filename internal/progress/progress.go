// Package progress reports how far a transcription has advanced through the
// media as one machine-readable line per recognized segment.
package progress

import (
	"fmt"
	"io"
	"time"
)

// elapsed time is floored to this so the first sample never divides by zero
const minElapsed = time.Millisecond

// Sample is one telemetry point. Position and Total are media seconds; Speed is
// media seconds processed per wall-clock second.
type Sample struct {
	Ratio    float64
	Position float64
	Total    float64
	Speed    float64
}

// String renders the sample in the PROGRESS line format.
func (s Sample) String() string {
	return fmt.Sprintf(
		"PROGRESS %.4f %.2f %.2f %.2f",
		s.Ratio,
		s.Position,
		s.Total,
		s.Speed,
	)
}

// Reporter turns segment end times into samples.
//
// A Reporter is owned by a single consuming call; it is not safe for
// concurrent use.
type Reporter struct {
	total   float64
	out     io.Writer
	now     func() time.Time
	started time.Time
	onError func(error)
	failed  bool
}

type Option func(*Reporter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// WithErrorHandler is called once, on the first failed write.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Reporter) {
		r.onError = fn
	}
}

// NewReporter writes samples to out. A total of zero or less means the
// duration is unknown and nothing is reported. A nil out discards samples.
func NewReporter(total float64, out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		total: total,
		out:   out,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether samples will be produced.
func (r *Reporter) Enabled() bool {
	return r != nil && r.total > 0
}

// Start records the wall-clock origin. Later calls are ignored.
func (r *Reporter) Start() {
	if r == nil || !r.started.IsZero() {
		return
	}
	r.started = r.now()
}

// Restart records a new wall-clock origin, so a reused Reporter measures
// speed from the current run only.
func (r *Reporter) Restart() {
	if r == nil {
		return
	}
	r.started = r.now()
}

// Observe computes the sample for a segment ending at position and writes it.
// The second result is false when telemetry is disabled.
func (r *Reporter) Observe(position float64) (Sample, bool) {
	if !r.Enabled() {
		return Sample{}, false
	}
	r.Start()

	elapsed := r.now().Sub(r.started)
	if elapsed < minElapsed {
		elapsed = minElapsed
	}

	sample := Sample{
		Ratio:    clamp(position/r.total, 0, 1),
		Position: position,
		Total:    r.total,
		Speed:    position / elapsed.Seconds(),
	}

	r.emit(sample)
	return sample, true
}

// one Write per line keeps lines intact on unbuffered descriptors
func (r *Reporter) emit(s Sample) {
	if r.out == nil {
		return
	}
	if _, err := io.WriteString(r.out, s.String()+"\n"); err != nil && !r.failed {
		r.failed = true
		if r.onError != nil {
			r.onError(err)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
