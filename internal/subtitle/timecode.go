package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const rangeSeparator = " --> "

// formats seconds as HH:MM:SS,mmm, hours are not wrapped at 24
//
// Rounding is half-up to the millisecond. Negative or non-finite input is a
// caller bug and panics.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		panic(fmt.Sprintf("subtitle: invalid timestamp %v", seconds))
	}

	// the conversion forces rounding of the product before Round sees it
	millis := int64(math.Round(float64(seconds * 1000)))

	hours := millis / 3_600_000
	minutes := (millis % 3_600_000) / 60_000
	secs := (millis % 60_000) / 1000
	ms := millis % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}

// parses HH:MM:SS,mmm (or HH:MM:SS.mmm) into seconds
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	clock, fraction, ok := strings.Cut(value, ",")
	if !ok {
		clock, fraction, ok = strings.Cut(value, ".")
	}
	if !ok || len(fraction) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	hms := strings.Split(clock, ":")
	if len(hms) != 3 || len(hms[0]) < 2 || len(hms[1]) != 2 || len(hms[2]) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	hours, errH := parseDigits(hms[0])
	minutes, errM := parseDigits(hms[1])
	secs, errS := parseDigits(hms[2])
	millis, errMS := parseDigits(fraction)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if minutes > 59 || secs > 59 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}

	total := ((hours*60+minutes)*60+secs)*1000 + millis
	return float64(total) / 1000, nil
}

// formats the "start --> end" line of a cue
func FormatRange(start, end float64) string {
	return FormatTimestamp(start) + rangeSeparator + FormatTimestamp(end)
}

// parses a "start --> end" line; trailing cue settings after end are ignored
func ParseRange(line string) (start, end float64, err error) {
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, fmt.Errorf("missing --> in timing line %q", line)
	}

	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("missing end time in timing line %q", line)
	}

	start, err = ParseTimestamp(left)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start: %w", err)
	}
	end, err = ParseTimestamp(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end: %w", err)
	}
	if err := validateRange(start, end); err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

// strconv.ParseInt also accepts signs, timestamps may not carry them
func parseDigits(s string) (int64, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
	}
	return strconv.ParseInt(s, 10, 64)
}
