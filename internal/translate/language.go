package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Pair is a source and target language.
type Pair struct {
	Source language.Tag
	Target language.Tag
}

// DefaultPair is English to Russian.
func DefaultPair() Pair {
	return Pair{Source: language.English, Target: language.Russian}
}

// ParsePair parses two BCP 47 tags. Identical languages are rejected.
func ParsePair(source, target string) (Pair, error) {
	src, err := language.Parse(strings.TrimSpace(source))
	if err != nil {
		return Pair{}, fmt.Errorf("invalid source language %q: %w", source, err)
	}
	dst, err := language.Parse(strings.TrimSpace(target))
	if err != nil {
		return Pair{}, fmt.Errorf("invalid target language %q: %w", target, err)
	}
	if src == dst {
		return Pair{}, fmt.Errorf("source and target language are both %s", src)
	}
	return Pair{Source: src, Target: dst}, nil
}

func (p Pair) IsZero() bool {
	return p.Source == language.Und && p.Target == language.Und
}

// SourceName is the English name of the source language, e.g. "English".
func (p Pair) SourceName() string {
	return displayName(p.Source)
}

func (p Pair) TargetName() string {
	return displayName(p.Target)
}

func (p Pair) String() string {
	return p.Source.String() + "->" + p.Target.String()
}

func displayName(tag language.Tag) string {
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}
