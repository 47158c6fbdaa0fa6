package translate

import (
	"testing"
)

func TestExtractTranslationResults(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare array", `[{"index":0,"text":"Привет"}]`, "Привет", false},
		{
			"chatty model",
			"Sure! Here you go:\n[{\"index\": 0, \"text\": \"Guten Morgen\"}]\nAnything else?",
			"Guten Morgen",
			false,
		},
		{
			"fenced",
			"```json\n[{\"index\": 0, \"text\": \"Bonsoir\"}]\n```",
			"Bonsoir",
			false,
		},
		{"results wrapper", `{"results":[{"index":0,"text":"Ciao"}]}`, "Ciao", false},
		{"unlisted wrapper key", `{"output":[{"index":0,"text":"Hej"}]}`, "Hej", false},
		{
			"braces in preamble",
			`Using {"index","text"} as asked: [{"index":0,"text":"Olá"}]`,
			"Olá",
			false,
		},
		{
			"stray escape",
			`[{"index":0,"text":"line one\Nline two"}]`,
			`line one\Nline two`,
			false,
		},
		{"empty text", `[{"index":0,"text":""}]`, "", true},
		{"empty array", `[]`, "", true},
		{"truncated", `[{"index":0,"text":"cut off`, "", true},
		{"prose only", `I cannot translate this line.`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractTranslationResults(cleanJSONResponse(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", results)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != 1 || results[0].Text != tt.want {
				t.Errorf("got %+v, want one result %q", results, tt.want)
			}
		})
	}
}

func TestFixInvalidEscapes(t *testing.T) {
	tests := map[string]string{
		`plain`:          `plain`,
		`a\"b`:           `a\"b`,
		`tab\there`:      `tab\there`,
		`ass\Nbreak`:     `ass\\Nbreak`,
		`odd \q`:         `odd \\q`,
		`ends with \`:    `ends with \`,
		`double \\ kept`: `double \\ kept`,
	}
	for in, want := range tests {
		if got := fixInvalidEscapes(in); got != want {
			t.Errorf("fixInvalidEscapes(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`[{"index":0}]`, `[{"index":0}]`},
		{"```json\n[1]\n```", `[1]`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"\n\n  ```json [2] ```  \n", `[2]`},
	}
	for _, tt := range tests {
		if got := cleanJSONResponse(tt.input); got != tt.want {
			t.Errorf("cleanJSONResponse(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncateString("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("got %q", got)
	}
}
