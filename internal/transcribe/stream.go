package transcribe

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/captionforge/captionforge/internal/subtitle"
)

// Stream yields segments one at a time in recognition order. Next returns
// io.EOF once the producer is exhausted.
type Stream interface {
	Next(ctx context.Context) (subtitle.Segment, error)
}

// SliceStream replays segments held in memory.
type SliceStream struct {
	segments []subtitle.Segment
	pos      int
}

func NewSliceStream(segments []subtitle.Segment) *SliceStream {
	return &SliceStream{segments: segments}
}

func (s *SliceStream) Next(ctx context.Context) (subtitle.Segment, error) {
	if err := ctx.Err(); err != nil {
		return subtitle.Segment{}, err
	}
	if s.pos >= len(s.segments) {
		return subtitle.Segment{}, io.EOF
	}
	seg := s.segments[s.pos]
	s.pos++
	return seg, nil
}

const maxJSONLLine = 1 << 20

// JSONLStream reads one {"start","end","text"} object per line. Blank lines
// are skipped.
type JSONLStream struct {
	scanner *bufio.Scanner
	line    int
}

func NewJSONLStream(r io.Reader) *JSONLStream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)
	return &JSONLStream{scanner: scanner}
}

func (s *JSONLStream) Next(ctx context.Context) (subtitle.Segment, error) {
	for {
		if err := ctx.Err(); err != nil {
			return subtitle.Segment{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return subtitle.Segment{}, fmt.Errorf("failed to read segments: %w", err)
			}
			return subtitle.Segment{}, io.EOF
		}
		s.line++

		raw := strings.TrimSpace(s.scanner.Text())
		if raw == "" {
			continue
		}

		var seg subtitle.Segment
		if err := json.Unmarshal([]byte(raw), &seg); err != nil {
			return subtitle.Segment{}, fmt.Errorf("segment on line %d: %w", s.line, err)
		}
		return seg, nil
	}
}
