// Package ffmpeg locates the ffmpeg and ffprobe executables, falling back to
// a cached prebuilt bundle when they are not installed.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	EnvFFmpegPath  = "CAPTIONFORGE_FFMPEG_PATH"
	EnvFFprobePath = "CAPTIONFORGE_FFPROBE_PATH"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

func (p BinaryPaths) complete() bool {
	return p.FFmpeg != "" && p.FFprobe != ""
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves both binaries once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = resolve(exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	return paths.FFmpeg, err
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	return paths.FFprobe, err
}

// environment overrides win, then PATH, then the per-user cache
func resolve(lookPath func(string) (string, error)) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  os.Getenv(EnvFFmpegPath),
		FFprobe: os.Getenv(EnvFFprobePath),
	}
	if paths.complete() {
		return paths, nil
	}

	if paths.FFmpeg == "" {
		if found, err := lookPath("ffmpeg"); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := lookPath("ffprobe"); err == nil {
			paths.FFprobe = found
		}
	}
	if paths.complete() {
		return paths, nil
	}

	return installBundle()
}

func installBundle() (BinaryPaths, error) {
	assetName, err := assetForPlatform(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return BinaryPaths{}, err
	}

	installDir := cacheDir()
	paths := BinaryPaths{
		FFmpeg:  filepath.Join(installDir, "ffmpeg"+executableSuffix()),
		FFprobe: filepath.Join(installDir, "ffprobe"+executableSuffix()),
	}
	if binariesExist(paths) {
		return paths, nil
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return BinaryPaths{}, fmt.Errorf("create ffmpeg cache dir: %w", err)
	}

	embedded, err := extractEmbedded(assetName, installDir)
	if err != nil {
		return BinaryPaths{}, err
	}
	if !embedded {
		if err := downloadAndExtract(assetName, installDir); err != nil {
			return BinaryPaths{}, err
		}
	}

	if !binariesExist(paths) {
		return BinaryPaths{}, errors.New("ffmpeg binaries not found after extraction")
	}
	if err := markExecutable(paths); err != nil {
		return BinaryPaths{}, err
	}
	return paths, nil
}

func cacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(
		base,
		"captionforge",
		"ffmpeg",
		releaseVersion,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

func markExecutable(paths BinaryPaths) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	for _, p := range []string{paths.FFmpeg, paths.FFprobe} {
		if err := os.Chmod(p, 0o755); err != nil {
			return fmt.Errorf("chmod %s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

func binariesExist(paths BinaryPaths) bool {
	return fileExists(paths.FFmpeg) && fileExists(paths.FFprobe)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
