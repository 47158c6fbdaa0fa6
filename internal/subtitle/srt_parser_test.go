package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseStringSRT(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	entries, err := ParseString(content, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].Timing != "00:00:01,000 --> 00:00:04,000" {
		t.Errorf("entry 0: unexpected timing %q", entries[0].Timing)
	}
	if !reflect.DeepEqual(entries[0].Lines, []string{"Hello, world!"}) {
		t.Errorf("entry 0: unexpected lines %q", entries[0].Lines)
	}

	wantLines := []string{"This is a test.", "With multiple lines."}
	if !reflect.DeepEqual(entries[1].Lines, wantLines) {
		t.Errorf("entry 1: expected %q, got %q", wantLines, entries[1].Lines)
	}
}

func TestParseStringWithoutIndexLines(t *testing.T) {
	withIndex := "7\n00:00:01,000 --> 00:00:02,000\nHello\n"
	withoutIndex := "00:00:01,000 --> 00:00:02,000\nHello\n"

	a, err := ParseString(withIndex, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ParseString(withoutIndex, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("indexed and bare blocks differ: %#v vs %#v", a, b)
	}
}

func TestParseStringKeepsTimingVerbatim(t *testing.T) {
	timing := "00:00:01,0004 -->   00:00:02,000 X1:10"
	entries, err := ParseString("1\n"+timing+"\ntext", ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Timing != timing {
		t.Fatalf("timing not preserved: %#v", entries)
	}
}

func TestParseStringNormalizesLineEndings(t *testing.T) {
	content := "\ufeff1\r\n00:00:01,000 --> 00:00:02,000\r\nHello\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nWorld\r\n"
	entries, err := ParseString(content, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Lines[0] != "World" {
		t.Errorf("unexpected text %q", entries[1].Lines[0])
	}
}

func TestParseStringBlankSeparators(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\nA\n \t\n\n\n2\n00:00:03,000 --> 00:00:04,000\nB"
	entries, err := ParseString(content, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestParseStringUnicodeBlankSeparators(t *testing.T) {
	tests := map[string]string{
		"ideographic space": "\u3000",
		"no-break space":    "\u00a0",
		"vertical tab":      "\v",
		"form feed":         "\f",
		"unit separator":    "\x1f",
		"mixed":             " \u2003\t",
	}

	for name, sep := range tests {
		t.Run(name, func(t *testing.T) {
			content := "1\n00:00:01,000 --> 00:00:02,000\nhello\n" + sep +
				"\n2\n00:00:03,000 --> 00:00:04,000\nworld\n"
			entries, err := ParseString(content, ParseOptions{Strict: true})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := []Entry{
				{Timing: "00:00:01,000 --> 00:00:02,000", Lines: []string{"hello"}},
				{Timing: "00:00:03,000 --> 00:00:04,000", Lines: []string{"world"}},
			}
			if !reflect.DeepEqual(entries, want) {
				t.Errorf("got %#v, want %#v", entries, want)
			}
		})
	}
}

func TestParseStringDropsMalformedTrailingBlock(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000
Kept

3
`
	entries, err := ParseString(content+"\n\ndangling", ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %#v", len(entries), entries)
	}
	if entries[0].Lines[0] != "Kept" {
		t.Errorf("unexpected entry %#v", entries[0])
	}
}

func TestParseStringLenientInteriorBlock(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000
First

not a timing line
still text

3
00:00:05,000 --> 00:00:06,000
Last
`
	entries, err := ParseString(content, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].Timing != "not a timing line" {
		t.Errorf("interior block timing = %q", entries[1].Timing)
	}

	_, err = ParseString(content, ParseOptions{Strict: true})
	var blockErr *BlockError
	if !errors.As(err, &blockErr) {
		t.Fatalf("expected *BlockError in strict mode, got %v", err)
	}
	if blockErr.Block != 2 {
		t.Errorf("expected block 2, got %d", blockErr.Block)
	}
}

func TestParseStringIndexWithoutText(t *testing.T) {
	entries, err := ParseString("4\n00:00:01,000 --> 00:00:02,000\n", ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || len(entries[0].Lines) != 0 {
		t.Fatalf("expected one entry without text, got %#v", entries)
	}
}

func TestParseStringEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "\ufeff", "   \r\n"} {
		entries, err := ParseString(input, ParseOptions{})
		if err != nil {
			t.Errorf("ParseString(%q) returned error: %v", input, err)
		}
		if entries == nil || len(entries) != 0 {
			t.Errorf("ParseString(%q) = %#v, want empty slice", input, entries)
		}
	}
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	srtPath := filepath.Join(tmpDir, "test.srt")
	content := "1\n00:00:01,000 --> 00:00:04,000\nHello, world!\n"
	if err := os.WriteFile(srtPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	entries, err := ParseFile(srtPath, ParseOptions{Strict: true})
	if err != nil {
		t.Fatalf("failed to parse SRT file: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	_, err = ParseFile(filepath.Join(tmpDir, "missing.srt"), ParseOptions{})
	if err == nil || !strings.Contains(err.Error(), "failed to open") {
		t.Errorf("expected open error, got %v", err)
	}
}
