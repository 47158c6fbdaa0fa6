package subtitle

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// isBlankLine reports a line made only of whitespace. Unicode spaces such as
// U+00A0 and U+3000 count, as do the ASCII separators U+001C..U+001F.
func isBlankLine(line string) bool {
	return strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
	}) == ""
}

// splitBlocks splits text on runs of blank lines. Blank lines never end up
// inside a block.
func splitBlocks(text string) []string {
	var (
		blocks  []string
		current []string
	)
	for _, line := range strings.Split(text, "\n") {
		if isBlankLine(line) {
			if len(current) > 0 {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

// ParseOptions tunes how forgiving the parser is.
type ParseOptions struct {
	// Strict rejects blocks whose timing line does not decode instead of
	// carrying it through verbatim.
	Strict bool
}

// BlockError points at the block that failed strict parsing.
type BlockError struct {
	Block int // 1-based position among blank-line separated blocks
	Line  string
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d: bad timing line %q: %v", e.Block, e.Line, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// ParseFile reads and parses the subtitle file at path, SRT or WebVTT
// depending on the extension.
func ParseFile(path string, opts ParseOptions) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return DecoderFor(path)(file, opts)
}

func Parse(r io.Reader, opts ParseOptions) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading SRT input: %w", err)
	}
	return ParseString(string(data), opts)
}

// splits text into entries
//
// Blocks are separated by blank lines. A block shorter than two lines is
// dropped. A leading all-digit line is the old cue number and is skipped; the
// next line is kept verbatim as the timing line and everything after it is
// text. Empty input is not an error.
func ParseString(text string, opts ParseOptions) ([]Entry, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return []Entry{}, nil
	}

	blocks := splitBlocks(text)
	entries := make([]Entry, 0, len(blocks))

	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			continue
		}

		idx := 0
		if isIndexLine(lines[0]) {
			idx = 1
		}
		timing := lines[idx]

		if opts.Strict {
			if _, _, err := ParseRange(timing); err != nil {
				return nil, &BlockError{Block: i + 1, Line: timing, Err: err}
			}
		}

		body := make([]string, len(lines)-idx-1)
		copy(body, lines[idx+1:])

		entries = append(entries, Entry{Timing: timing, Lines: body})
	}

	return entries, nil
}

func isIndexLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
