package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every call after the first.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestReporterClampsRatio(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{now: time.Unix(0, 0), step: 5 * time.Second}
	r := NewReporter(10.0, &buf, WithClock(clock.Now))
	r.Start()

	sample, ok := r.Observe(15.0)
	if !ok {
		t.Fatal("expected sample")
	}
	if sample.Ratio != 1 {
		t.Errorf("ratio = %v, want 1", sample.Ratio)
	}

	want := "PROGRESS 1.0000 15.00 10.00 3.00\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestReporterFloorsElapsed(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{now: time.Unix(100, 0)}
	r := NewReporter(60, &buf, WithClock(clock.Now))
	r.Start()

	sample, _ := r.Observe(3)
	// zero elapsed is floored to 1ms
	if sample.Speed != 3000 {
		t.Errorf("speed = %v, want 3000", sample.Speed)
	}
	if sample.Ratio != 0.05 {
		t.Errorf("ratio = %v, want 0.05", sample.Ratio)
	}
	if !strings.HasPrefix(buf.String(), "PROGRESS 0.0500 3.00 60.00 3000.00") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestReporterSuppressedWithoutTotal(t *testing.T) {
	for _, total := range []float64{0, -5} {
		var buf bytes.Buffer
		r := NewReporter(total, &buf)
		r.Start()
		if _, ok := r.Observe(3); ok {
			t.Errorf("total %v: expected no sample", total)
		}
		if buf.Len() != 0 {
			t.Errorf("total %v: expected no output, got %q", total, buf.String())
		}
	}
}

func TestReporterOneLinePerObservation(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{now: time.Unix(0, 0), step: time.Second}
	r := NewReporter(4, &buf, WithClock(clock.Now))
	r.Start()

	for _, pos := range []float64{1, 2, 3, 4} {
		r.Observe(pos)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[3] != "PROGRESS 1.0000 4.00 4.00 1.00" {
		t.Errorf("last line = %q", lines[3])
	}
}

type brokenWriter struct{ calls int }

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errors.New("pipe closed")
}

func TestReporterWriteFailureIsNotFatal(t *testing.T) {
	w := &brokenWriter{}
	var reported []error
	r := NewReporter(10, w, WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))

	for i := 0; i < 3; i++ {
		if _, ok := r.Observe(float64(i)); !ok {
			t.Fatalf("observation %d dropped", i)
		}
	}
	if w.calls != 3 {
		t.Errorf("expected 3 write attempts, got %d", w.calls)
	}
	if len(reported) != 1 {
		t.Errorf("expected one reported error, got %d", len(reported))
	}
}

func TestNilReporter(t *testing.T) {
	var r *Reporter
	r.Start()
	r.Restart()
	if _, ok := r.Observe(1); ok {
		t.Error("nil reporter produced a sample")
	}
}

func TestReporterRestartResetsOrigin(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{now: time.Unix(0, 0)}
	r := NewReporter(100, &buf, WithClock(clock.Now))

	r.Start()
	clock.now = clock.now.Add(50 * time.Second)
	first, _ := r.Observe(10)
	if first.Speed != 0.2 {
		t.Errorf("first run speed = %v, want 0.2", first.Speed)
	}

	r.Restart()
	clock.now = clock.now.Add(2 * time.Second)
	second, _ := r.Observe(10)
	if second.Speed != 5 {
		t.Errorf("second run speed = %v, want 5", second.Speed)
	}

	// Start keeps an existing origin
	r.Start()
	clock.now = clock.now.Add(2 * time.Second)
	third, _ := r.Observe(20)
	if third.Speed != 5 {
		t.Errorf("speed after Start = %v, want 5", third.Speed)
	}
}
