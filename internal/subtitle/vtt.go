package subtitle

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Decoder parses one subtitle format into entries.
type Decoder func(r io.Reader, opts ParseOptions) ([]Entry, error)

// DecoderFor picks a decoder by file extension. Anything but .vtt is SRT.
func DecoderFor(path string) Decoder {
	if strings.EqualFold(filepath.Ext(path), ".vtt") {
		return ParseVTT
	}
	return Parse
}

// ParseVTT reads WebVTT cues as entries with SRT timing lines, so they can be
// written back out with WriteSRT. Cue identifiers, cue settings and NOTE,
// STYLE and REGION blocks are dropped; cue text is kept as is.
func ParseVTT(r io.Reader, opts ParseOptions) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading VTT input: %w", err)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "WEBVTT") {
		return nil, errors.New("missing WEBVTT header")
	}

	blocks := splitBlocks(text)
	entries := make([]Entry, 0, len(blocks))

	// blocks[0] is the header
	for i := 1; i < len(blocks); i++ {
		lines := strings.Split(blocks[i], "\n")
		if isVTTMetadata(lines[0]) {
			continue
		}

		idx := 0
		if !strings.Contains(lines[0], "-->") {
			idx = 1
		}
		if idx+1 >= len(lines) {
			continue
		}

		timing, err := vttTiming(lines[idx])
		if err != nil {
			if opts.Strict {
				return nil, &BlockError{Block: i + 1, Line: lines[idx], Err: err}
			}
			continue
		}

		body := make([]string, len(lines)-idx-1)
		copy(body, lines[idx+1:])
		entries = append(entries, Entry{Timing: timing, Lines: body})
	}

	return entries, nil
}

func isVTTMetadata(line string) bool {
	line = strings.TrimSpace(line)
	return line == "NOTE" || strings.HasPrefix(line, "NOTE ") ||
		line == "STYLE" || line == "REGION"
}

// vttTiming rewrites "00:01.000 --> 00:02.500 align:start" as an SRT range
func vttTiming(line string) (string, error) {
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return "", fmt.Errorf("missing --> in timing line %q", line)
	}
	fields := strings.Fields(right)
	if len(fields) == 0 {
		return "", fmt.Errorf("missing end time in timing line %q", line)
	}

	start, err := parseVTTTimestamp(left)
	if err != nil {
		return "", fmt.Errorf("invalid start: %w", err)
	}
	end, err := parseVTTTimestamp(fields[0])
	if err != nil {
		return "", fmt.Errorf("invalid end: %w", err)
	}
	if err := validateRange(start, end); err != nil {
		return "", err
	}
	return FormatRange(start, end), nil
}

// hours are optional in WebVTT
func parseVTTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if strings.Count(value, ":") == 1 {
		value = "00:" + value
	}
	return ParseTimestamp(value)
}
