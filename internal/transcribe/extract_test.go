package transcribe

import (
	"testing"
)

func TestExtractTranscriptSegments(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "bare array",
			input:     `[{"start":0,"end":1.2,"text":"one"},{"start":1.2,"end":2,"text":"two"}]`,
			wantFirst: "one",
			wantCount: 2,
		},
		{
			name:      "prose around the array",
			input:     "The transcript follows.\n[{\"start\": 3, \"end\": 4.5, \"text\": \"said\"}]\nTimestamps are in seconds.",
			wantFirst: "said",
			wantCount: 1,
		},
		{
			name:      "preferred key wins over earlier key",
			input:     `{"data":[{"start":9,"end":10,"text":"late"}],"segments":[{"start":0,"end":1,"text":"early"}]}`,
			wantFirst: "early",
			wantCount: 1,
		},
		{
			name:      "deeply nested",
			input:     `{"result":{"audio":{"transcript":[{"start":0,"end":2,"text":"deep"}]}}}`,
			wantFirst: "deep",
			wantCount: 1,
		},
		{
			name:      "status object before the transcript",
			input:     "{\"ok\": true}\n[{\"start\": 0, \"end\": 1, \"text\": \"after status\"}]",
			wantFirst: "after status",
			wantCount: 1,
		},
		{
			name:      "numbers array skipped",
			input:     "[4, 5, 6] [{\"start\": 0, \"end\": 1, \"text\": \"real\"}]",
			wantFirst: "real",
			wantCount: 1,
		},
		{
			name:      "silence keeps timing",
			input:     `[{"start":1,"end":2,"text":""}]`,
			wantFirst: "",
			wantCount: 1,
		},
		{name: "empty array", input: `[]`, wantErr: true},
		{name: "zero-valued objects", input: `[{},{"text":""}]`, wantErr: true},
		{name: "prose", input: `No speech detected.`, wantErr: true},
		{name: "truncated", input: `[{"start":0,"end":1,"text":"cut`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := extractTranscriptSegments(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", segments)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Fatalf("got %d segments, want %d", len(segments), tt.wantCount)
			}
			if segments[0].Text != tt.wantFirst {
				t.Errorf("first text = %q, want %q", segments[0].Text, tt.wantFirst)
			}
		})
	}
}

func TestCleanJSONResponseStripsFences(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`[{"start":0}]`, `[{"start":0}]`},
		{"```json\n[{\"start\":0}]\n```", `[{"start":0}]`},
		{"```\n{\"segments\":[]}\n```", `{"segments":[]}`},
		{"\t```json[]```\n", `[]`},
	}
	for _, tt := range tests {
		if got := cleanJSONResponse(tt.input); got != tt.want {
			t.Errorf("cleanJSONResponse(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []transcriptSegment
		want     bool
	}{
		{"nil", nil, false},
		{"only zero values", []transcriptSegment{{}, {}}, false},
		{"text only", []transcriptSegment{{Text: "hi"}}, true},
		{"timing only", []transcriptSegment{{Start: 0.5, End: 1}}, true},
		{"zero then real", []transcriptSegment{{}, {End: 3, Text: "x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateSegments(tt.segments); got != tt.want {
				t.Errorf("validateSegments() = %v, want %v", got, tt.want)
			}
		})
	}
}
