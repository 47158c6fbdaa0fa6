package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/captionforge/captionforge/internal/logging"
)

// YTDLP resolves media through the yt-dlp executable.
type YTDLP struct {
	Binary string
	Logger *logging.Logger
}

func NewYTDLP(binary string, logger *logging.Logger) *YTDLP {
	if binary == "" {
		binary = "yt-dlp"
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &YTDLP{Binary: binary, Logger: logger}
}

// subset of the info dict printed after the file is moved into place
type downloadInfo struct {
	Title             string `json:"title"`
	Ext               string `json:"ext"`
	Filepath          string `json:"filepath"`
	Filename          string `json:"_filename"`
	RequestedDownload []struct {
		Filepath string `json:"filepath"`
		Filename string `json:"_filename"`
	} `json:"requested_downloads"`
}

func (y *YTDLP) Resolve(
	ctx context.Context,
	locator, outputPath string,
	maxHeight int,
) (*Asset, error) {
	maxHeight = NormalizeMaxHeight(maxHeight)

	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	template := filepath.Join(outDir, base+".%(ext)s")

	args := []string{
		"-f", formatSelector(maxHeight),
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-warnings",
		"-o", template,
		"--print", "after_move:%()j",
		locator,
	}

	y.Logger.Infow("Downloading media",
		"url", locator,
		"max_height", maxHeight,
		"output", template,
	)

	stdout, err := y.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	info, err := lastJSONLine(stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}

	asset := &Asset{
		Path:  finalPath(info, filepath.Join(outDir, base)),
		Title: info.Title,
	}
	if asset.Title == "" {
		asset.Title = fallbackTitle
	}
	asset.Ext = filepath.Ext(asset.Path)
	if asset.Ext == "" {
		asset.Ext = fallbackExt
	}

	y.Logger.Infow("Media downloaded",
		"path", asset.Path,
		"title", asset.Title,
	)
	return asset, nil
}

// Probe checks that locator is reachable and returns its title.
func (y *YTDLP) Probe(ctx context.Context, locator string) (string, error) {
	stdout, err := y.run(ctx,
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--print", "%(title)s",
		locator,
	)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(string(stdout))
	if i := strings.LastIndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[i+1:])
	}
	if title == "" || title == "NA" {
		title = fallbackTitle
	}
	return title, nil
}

func (y *YTDLP) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, y.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: yt-dlp failed: %s", ErrResourceUnavailable, msg)
	}
	return stdout.Bytes(), nil
}

func formatSelector(maxHeight int) string {
	return fmt.Sprintf(
		"bestvideo[height<=%d]+bestaudio/best[height<=%d]/best",
		maxHeight,
		maxHeight,
	)
}

func lastJSONLine(out []byte) (*downloadInfo, error) {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var info downloadInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
		}
		return &info, nil
	}
	return nil, fmt.Errorf("yt-dlp printed no download info")
}

// finalPath prefers what yt-dlp reports, then the template with the
// reported extension, then an mp4 next to it
func finalPath(info *downloadInfo, base string) string {
	var path string
	if len(info.RequestedDownload) > 0 {
		path = firstNonEmpty(info.RequestedDownload[0].Filepath, info.RequestedDownload[0].Filename)
	}
	if path == "" {
		path = firstNonEmpty(info.Filepath, info.Filename)
	}
	if path == "" {
		path = base + fallbackExt
	}
	if info.Ext != "" {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + info.Ext
	}
	if _, err := os.Stat(path); err != nil {
		candidate := strings.TrimSuffix(path, filepath.Ext(path)) + fallbackExt
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
