package subtitle

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidTiming is returned when a time range is negative, inverted or not
// a finite number.
var ErrInvalidTiming = errors.New("invalid timing")

// represents transcribed audio segment, times in seconds
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate reports whether the segment has a usable time range.
func (s Segment) Validate() error {
	return validateRange(s.Start, s.End)
}

// represents single subtitle cue
//
// Timing holds the full "start --> end" line. Entries decoded from a file keep
// it byte for byte; entries built from segments get it from FormatRange. The
// cue number is not stored, writers assign it.
type Entry struct {
	Timing string
	Lines  []string
}

// builds an entry for a recognized segment
//
// Blank lines inside text are dropped; a written cue never contains one.
func NewEntry(start, end float64, text string) (Entry, error) {
	if err := validateRange(start, end); err != nil {
		return Entry{}, err
	}
	return Entry{
		Timing: FormatRange(start, end),
		Lines:  textLines(text),
	}, nil
}

func textLines(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r", ""))
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if !isBlankLine(line) {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// EntryFromSegment is NewEntry for a Segment.
func EntryFromSegment(seg Segment) (Entry, error) {
	return NewEntry(seg.Start, seg.End, seg.Text)
}

// WithLines returns a copy of e carrying the same timing and new text.
func (e Entry) WithLines(lines []string) Entry {
	out := make([]string, len(lines))
	copy(out, lines)
	return Entry{Timing: e.Timing, Lines: out}
}

// Text joins the lines the way they are written to disk.
func (e Entry) Text() string {
	return strings.TrimSpace(strings.Join(e.Lines, "\n"))
}

func validateRange(start, end float64) error {
	switch {
	case math.IsNaN(start) || math.IsNaN(end) ||
		math.IsInf(start, 0) || math.IsInf(end, 0):
		return fmt.Errorf("%w: non-finite range %v-%v", ErrInvalidTiming, start, end)
	case start < 0:
		return fmt.Errorf("%w: negative start %.3f", ErrInvalidTiming, start)
	case end < start:
		return fmt.Errorf(
			"%w: end %.3f before start %.3f",
			ErrInvalidTiming,
			end,
			start,
		)
	}
	return nil
}
