package ffmpeg

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	releaseVersion = "6.1"
	releaseBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"
)

func assetForPlatform(goos, goarch string) (string, error) {
	var platform string
	switch goos + "/" + goarch {
	case "linux/amd64":
		platform = "linux-64"
	case "linux/arm64":
		platform = "linux-arm-64"
	case "darwin/amd64":
		platform = "macos-64"
	case "windows/amd64":
		platform = "win-64"
	default:
		return "", fmt.Errorf("unsupported platform for bundled ffmpeg: %s/%s", goos, goarch)
	}
	return "ffmpeg-" + releaseVersion + "-" + platform + ".zip", nil
}

func downloadAndExtract(assetName, installDir string) error {
	url := fmt.Sprintf("%s/v%s/%s", releaseBaseURL, releaseVersion, assetName)
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download ffmpeg bundle: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download ffmpeg bundle: unexpected status %s", resp.Status)
	}
	return extractFromReader(assetName, resp.Body, installDir)
}

// bundledArchives is set by builds tagged ffmpeg_embedded
var bundledArchives fs.FS

func extractEmbedded(assetName, installDir string) (bool, error) {
	if bundledArchives == nil {
		return false, nil
	}
	reader, err := bundledArchives.Open(assetName)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open bundled ffmpeg: %w", err)
	}
	defer func() { _ = reader.Close() }()

	return true, extractFromReader(assetName, reader, installDir)
}

// zip needs random access, so the stream is spooled to a temp file first
func extractFromReader(assetName string, reader io.Reader, installDir string) error {
	tmp, err := os.CreateTemp("", "captionforge-ffmpeg-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	archivePath := tmp.Name()
	defer func() { _ = os.Remove(archivePath) }()

	_, copyErr := io.Copy(tmp, reader)
	closeErr := tmp.Close()
	if copyErr != nil {
		return fmt.Errorf("write archive: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close archive: %w", closeErr)
	}

	if err := extractArchive(archivePath, installDir); err != nil {
		return fmt.Errorf("extract %s: %w", assetName, err)
	}
	return nil
}

func extractArchive(archivePath, installDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open ffmpeg archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	found := map[string]bool{}
	for _, file := range zr.File {
		tool := binaryName(filepath.Base(file.Name))
		if tool == "" {
			continue
		}
		dest := filepath.Join(installDir, tool+executableSuffix())
		if err := extractZipFile(file, dest); err != nil {
			return err
		}
		found[tool] = true
	}

	if !found["ffmpeg"] || !found["ffprobe"] {
		return fmt.Errorf("ffmpeg archive missing required binaries")
	}
	return nil
}

func extractZipFile(file *zip.File, dest string) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open ffmpeg archive entry: %w", err)
	}
	defer func() { _ = reader.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(dest), err)
	}
	if _, err := io.Copy(out, reader); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(dest), err)
	}
	return out.Close()
}

// binaryName maps an archive entry to "ffmpeg" or "ffprobe", or "" for
// anything else
func binaryName(entry string) string {
	name := strings.TrimSuffix(strings.ToLower(entry), ".exe")
	switch name {
	case "ffmpeg", "ffprobe":
		return name
	}
	return ""
}
