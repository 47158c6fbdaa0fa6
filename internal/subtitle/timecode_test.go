package subtitle

import (
	"math"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{59.9994, "00:00:59,999"},
		{59.9996, "00:01:00,000"},
		{3661.2005, "01:01:01,201"},
		{86400, "24:00:00,000"},
		{3600 * 100, "100:00:00,000"},
		{3600*123 + 45*60 + 6.789, "123:45:06,789"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatTimestamp(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatTimestampPanicsOnInvalidInput(t *testing.T) {
	for _, v := range []float64{-0.001, math.NaN(), math.Inf(1)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("FormatTimestamp(%v) did not panic", v)
				}
			}()
			FormatTimestamp(v)
		}()
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "00:00:00,000", want: 0},
		{input: "01:01:01,201", want: 3661.201},
		{input: "00:00:05.500", want: 5.5},
		{input: "100:00:00,000", want: 360000},
		{input: " 00:00:01,000 ", want: 1},
		{input: "", wantErr: true},
		{input: "00:00:01", wantErr: true},
		{input: "00:61:00,000", wantErr: true},
		{input: "0:00:01,000", wantErr: true},
		{input: "00:00:01,5", wantErr: true},
		{input: "+0:00:01,000", wantErr: true},
		{input: "aa:bb:cc,ddd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, ms := range []int64{0, 1, 999, 1000, 59_999, 3_599_999, 3_600_000, 400_000_123} {
		text := FormatTimestamp(float64(ms) / 1000)
		got, err := ParseTimestamp(text)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", text, err)
		}
		if again := FormatTimestamp(got); again != text {
			t.Errorf("round trip of %q produced %q", text, again)
		}
	}
}

func TestParseRange(t *testing.T) {
	start, end, err := ParseRange("00:00:01,000 --> 00:00:04,250 align:start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 1 || end != 4.25 {
		t.Errorf("got %v-%v, want 1-4.25", start, end)
	}

	bad := []string{
		"00:00:01,000",
		"00:00:01,000 -->",
		"00:00:05,000 --> 00:00:04,000",
		"Hello there",
	}
	for _, line := range bad {
		if _, _, err := ParseRange(line); err == nil {
			t.Errorf("ParseRange(%q) expected error", line)
		}
	}
}

func TestFormatRange(t *testing.T) {
	got := FormatRange(1, 4.2)
	want := "00:00:01,000 --> 00:00:04,200"
	if got != want {
		t.Errorf("FormatRange = %q, want %q", got, want)
	}
}
