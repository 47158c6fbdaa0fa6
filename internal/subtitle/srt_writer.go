package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// OutputMode selects when the subtitle file is opened and written.
type OutputMode string

const (
	// collect every entry, open the output once the producer is exhausted
	ModeBuffered OutputMode = "buffered"
	// open the output up front and flush each entry as it arrives
	ModeStreaming OutputMode = "streaming"
)

// Encoder writes SRT blocks one at a time and numbers them from 1.
type Encoder struct {
	w *bufio.Writer
	n int
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode appends one block. Indices from any earlier file are never used.
func (e *Encoder) Encode(entry Entry) error {
	e.n++

	e.w.WriteString(strconv.Itoa(e.n))
	e.w.WriteByte('\n')
	e.w.WriteString(entry.Timing)
	e.w.WriteByte('\n')
	e.w.WriteString(entry.Text())
	_, err := e.w.WriteString("\n\n")
	if err != nil {
		return fmt.Errorf("failed to write entry %d: %w", e.n, err)
	}
	return nil
}

// number of blocks written so far
func (e *Encoder) Count() int {
	return e.n
}

func (e *Encoder) Flush() error {
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush subtitles: %w", err)
	}
	return nil
}

// writes the whole sequence; an empty sequence writes nothing
func WriteSRT(w io.Writer, entries []Entry) error {
	enc := NewEncoder(w)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return enc.Flush()
}

// Sink opens the destination of a subtitle file. It is called at most once
// per pipeline run.
type Sink func() (io.WriteCloser, error)

// creates the parent directory and truncates path when opened
func FileSink(path string) Sink {
	return func() (io.WriteCloser, error) {
		if err := ensureDir(path); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
		return f, nil
	}
}

// WriteFile renders entries to path in one pass.
func WriteFile(path string, entries []Entry) error {
	out, err := FileSink(path)()
	if err != nil {
		return err
	}
	if err := WriteSRT(out, entries); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
