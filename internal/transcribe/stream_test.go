package transcribe

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/captionforge/captionforge/internal/subtitle"
)

func drain(t *testing.T, s Stream) []subtitle.Segment {
	t.Helper()
	var out []subtitle.Segment
	for {
		seg, err := s.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		out = append(out, seg)
	}
}

func TestSliceStream(t *testing.T) {
	in := []subtitle.Segment{
		{Start: 0, End: 1, Text: "one"},
		{Start: 1, End: 2, Text: "two"},
	}
	got := drain(t, NewSliceStream(in))
	if len(got) != 2 || got[1].Text != "two" {
		t.Errorf("unexpected segments %+v", got)
	}
}

func TestSliceStreamHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSliceStream([]subtitle.Segment{{Text: "x"}}).Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestJSONLStream(t *testing.T) {
	input := `{"start": 0.0, "end": 1.25, "text": "Hello"}

{"start": 1.25, "end": 2.5, "text": "World", "confidence": 0.93}
`
	got := drain(t, NewJSONLStream(strings.NewReader(input)))
	want := []subtitle.Segment{
		{Start: 0, End: 1.25, Text: "Hello"},
		{Start: 1.25, End: 2.5, Text: "World"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestJSONLStreamReportsBadLine(t *testing.T) {
	s := NewJSONLStream(strings.NewReader("{\"start\":0,\"end\":1,\"text\":\"ok\"}\nnot json\n"))

	if _, err := s.Next(context.Background()); err != nil {
		t.Fatalf("first segment: %v", err)
	}
	_, err := s.Next(context.Background())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
}

func TestJSONLStreamEmptyInput(t *testing.T) {
	if got := drain(t, NewJSONLStream(strings.NewReader(""))); len(got) != 0 {
		t.Errorf("expected no segments, got %+v", got)
	}
}
