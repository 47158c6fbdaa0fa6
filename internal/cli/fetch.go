package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/captionforge/captionforge/internal/media"
)

type probeResult struct {
	OK    bool   `json:"ok"`
	Title string `json:"title"`
}

func newFetchCommand(a *app) *cobra.Command {
	var (
		maxHeight int
		probeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <url> [output-path]",
		Short: "Download a video with yt-dlp",
		Long: `Download a video (best quality up to --max-height) and print
{"asset_path","title","ext"} as JSON. With --probe nothing is downloaded and
{"ok":true,"title"} is printed instead.

Without output-path the file lands in media.output_dir under a random name.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resolver := a.providers.resolver(a.cfg, a.logger)

			if probeOnly {
				title, err := resolver.Probe(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), probeResult{OK: true, Title: title})
			}

			if cmd.Flags().Changed("max-height") {
				a.cfg.Media.MaxHeight = media.NormalizeMaxHeight(maxHeight)
			}

			output := filepath.Join(a.cfg.Media.OutputDir, uuid.NewString()+".mp4")
			if len(args) > 1 {
				output = args[1]
			}

			asset, err := resolver.Resolve(ctx, args[0], output, a.cfg.Media.MaxHeight)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), asset)
		},
	}

	cmd.Flags().
		IntVar(&maxHeight, "max-height", 0, "Maximum video height in pixels (default from config)")
	cmd.Flags().
		BoolVar(&probeOnly, "probe", false, "Only check that the URL is reachable")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
