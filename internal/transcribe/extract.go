package transcribe

import (
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strings"
)

// segment as models are asked to return it
type transcriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

var fencePattern = regexp.MustCompile("```(?:json)?\\s*")

// wrapper keys models commonly put around the array, tried first
var preferredKeys = []string{"segments", "transcript", "data"}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = fencePattern.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// extractTranscriptSegments finds the first JSON value in text that is, or
// wraps, a non-empty array of segments. Prose before and after is ignored.
func extractTranscriptSegments(text string) ([]transcriptSegment, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}
		if segments, ok := findSegments(raw); ok {
			return segments, nil
		}
		// skip the whole value, its children were searched already
		i += int(dec.InputOffset()) - 1
	}
	return nil, errors.New("no transcript segments found in response")
}

func findSegments(raw json.RawMessage) ([]transcriptSegment, bool) {
	var segments []transcriptSegment
	if err := json.Unmarshal(raw, &segments); err == nil {
		return segments, validateSegments(segments)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := keyRank(keys[i]), keyRank(keys[j])
		if pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		if segments, ok := findSegments(obj[k]); ok {
			return segments, true
		}
	}
	return nil, false
}

func keyRank(key string) int {
	for i, k := range preferredKeys {
		if strings.EqualFold(k, key) {
			return i
		}
	}
	return len(preferredKeys)
}

// validateSegments rejects empty arrays and arrays of zero-valued objects,
// which is what unrelated JSON decodes to
func validateSegments(segments []transcriptSegment) bool {
	for _, s := range segments {
		if s.Text != "" || s.Start != 0 || s.End != 0 {
			return true
		}
	}
	return false
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
