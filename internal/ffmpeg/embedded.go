//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"io/fs"
)

// release archives named as assetForPlatform returns them, copied into
// assets/ before a tagged build
//
//go:embed assets
var releaseArchives embed.FS

func init() {
	if sub, err := fs.Sub(releaseArchives, "assets"); err == nil {
		bundledArchives = sub
	}
}
