package transcribe

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/captionforge/captionforge/internal/audio"
	"github.com/captionforge/captionforge/internal/logging"
	"github.com/captionforge/captionforge/internal/subtitle"
)

// Cutter extracts [start, start+length) of src into dst.
type Cutter func(ctx context.Context, src, dst string, start, length float64) error

// ChunkedStream transcribes a long audio file one chunk at a time. A chunk
// is only cut and sent to the provider once the previous chunk's segments
// have all been consumed.
type ChunkedStream struct {
	audioPath   string
	chunks      []audio.ChunkInfo
	transcriber FileTranscriber
	cut         Cutter
	logger      *logging.Logger
	workDir     string

	next    int
	pending []subtitle.Segment
}

type ChunkedOption func(*ChunkedStream)

func WithCutter(cut Cutter) ChunkedOption {
	return func(s *ChunkedStream) {
		s.cut = cut
	}
}

func WithLogger(logger *logging.Logger) ChunkedOption {
	return func(s *ChunkedStream) {
		s.logger = logger
	}
}

// NewChunkedStream plans chunks of chunkSeconds over total seconds of
// audioPath. Chunk files live in a temporary directory removed by Close.
func NewChunkedStream(
	audioPath string,
	total, chunkSeconds float64,
	transcriber FileTranscriber,
	opts ...ChunkedOption,
) (*ChunkedStream, error) {
	chunks, err := audio.Plan(total, chunkSeconds)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "captionforge-chunks-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}

	s := &ChunkedStream{
		audioPath:   audioPath,
		chunks:      chunks,
		transcriber: transcriber,
		cut:         audio.Cut,
		logger:      logging.Nop(),
		workDir:     workDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Chunks reports how many chunks were planned.
func (s *ChunkedStream) Chunks() int {
	return len(s.chunks)
}

func (s *ChunkedStream) Next(ctx context.Context) (subtitle.Segment, error) {
	for len(s.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return subtitle.Segment{}, err
		}
		if s.next >= len(s.chunks) {
			return subtitle.Segment{}, io.EOF
		}

		chunk := s.chunks[s.next]
		s.next++

		segments, err := s.transcribeChunk(ctx, chunk)
		if err != nil {
			return subtitle.Segment{}, fmt.Errorf("chunk %d failed: %w", chunk.Index, err)
		}
		s.pending = segments
	}

	seg := s.pending[0]
	s.pending = s.pending[1:]
	return seg, nil
}

func (s *ChunkedStream) transcribeChunk(
	ctx context.Context,
	chunk audio.ChunkInfo,
) ([]subtitle.Segment, error) {
	ext := filepath.Ext(s.audioPath)
	if ext == "" {
		ext = ".mp3"
	}
	chunkPath := filepath.Join(s.workDir, fmt.Sprintf("chunk_%03d%s", chunk.Index, ext))
	defer os.Remove(chunkPath)

	if err := s.cut(ctx, s.audioPath, chunkPath, chunk.Start, chunk.Length()); err != nil {
		return nil, err
	}

	s.logger.Debugw("Transcribing chunk",
		"chunk", chunk.Index+1,
		"of", len(s.chunks),
		"start", chunk.Start,
	)

	result, err := s.transcriber.Transcribe(ctx, chunkPath)
	if err != nil {
		return nil, err
	}

	segments := offsetSegments(result.Segments, chunk)

	s.logger.Debugw("Chunk transcribed",
		"chunk", chunk.Index+1,
		"segments", len(segments),
	)
	return segments, nil
}

// offsetSegments moves chunk-relative segments onto the source timeline.
// Times are clamped into the chunk so segments never overlap the next chunk,
// and the result is ordered by start time.
func offsetSegments(segments []subtitle.Segment, chunk audio.ChunkInfo) []subtitle.Segment {
	length := chunk.Length()
	out := make([]subtitle.Segment, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		start := clamp(seg.Start, 0, length)
		end := clamp(seg.End, start, length)
		out = append(out, subtitle.Segment{
			Start: chunk.Start + start,
			End:   chunk.Start + end,
			Text:  text,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// Close removes the chunk directory.
func (s *ChunkedStream) Close() error {
	return os.RemoveAll(s.workDir)
}
