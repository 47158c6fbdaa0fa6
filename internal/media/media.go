// Package media fetches remote videos to local files for transcription.
package media

import (
	"context"
	"errors"
)

// ErrResourceUnavailable wraps every failure to reach or download a source.
var ErrResourceUnavailable = errors.New("resource unavailable")

const (
	DefaultMaxHeight = 1080
	MinMaxHeight     = 144

	fallbackTitle = "youtube-video"
	fallbackExt   = ".mp4"
)

// Asset is a downloaded media file.
type Asset struct {
	Path  string `json:"asset_path"`
	Title string `json:"title"`
	Ext   string `json:"ext"`
}

// Resolver downloads a locator (usually a URL) to outputPath. The extension
// of outputPath is replaced by whatever container the download ends up in.
type Resolver interface {
	Resolve(ctx context.Context, locator, outputPath string, maxHeight int) (*Asset, error)
	Probe(ctx context.Context, locator string) (string, error)
}

// NormalizeMaxHeight floors h to MinMaxHeight. Zero and negative heights are
// floored too; DefaultMaxHeight applies only when no height was configured.
func NormalizeMaxHeight(h int) int {
	if h < MinMaxHeight {
		return MinMaxHeight
	}
	return h
}
