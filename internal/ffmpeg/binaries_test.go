package ffmpeg

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestAssetForPlatform(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"linux", "amd64", "ffmpeg-6.1-linux-64.zip", false},
		{"linux", "arm64", "ffmpeg-6.1-linux-arm-64.zip", false},
		{"darwin", "amd64", "ffmpeg-6.1-macos-64.zip", false},
		{"windows", "amd64", "ffmpeg-6.1-win-64.zip", false},
		{"plan9", "386", "", true},
	}

	for _, tt := range tests {
		got, err := assetForPlatform(tt.goos, tt.goarch)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s/%s: err = %v, wantErr %v", tt.goos, tt.goarch, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s/%s: got %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}
}

func TestResolvePrefersEnvironment(t *testing.T) {
	t.Setenv(EnvFFmpegPath, "/opt/ff/ffmpeg")
	t.Setenv(EnvFFprobePath, "/opt/ff/ffprobe")

	paths, err := resolve(func(string) (string, error) {
		t.Fatal("PATH lookup should not run when both overrides are set")
		return "", nil
	})
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if paths.FFmpeg != "/opt/ff/ffmpeg" || paths.FFprobe != "/opt/ff/ffprobe" {
		t.Errorf("unexpected paths %+v", paths)
	}
}

func TestResolveMixesOverrideAndPath(t *testing.T) {
	t.Setenv(EnvFFmpegPath, "/custom/ffmpeg")
	t.Setenv(EnvFFprobePath, "")

	paths, err := resolve(func(name string) (string, error) {
		if name == "ffprobe" {
			return "/usr/bin/ffprobe", nil
		}
		return "", errors.New("not found")
	})
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if paths.FFmpeg != "/custom/ffmpeg" || paths.FFprobe != "/usr/bin/ffprobe" {
		t.Errorf("unexpected paths %+v", paths)
	}
}

func TestExtractArchive(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.zip")

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, name := range []string{"bin/ffmpeg", "bin/ffprobe", "README.txt"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("binary:" + name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	installDir := filepath.Join(dir, "install")
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := extractArchive(archivePath, installDir); err != nil {
		t.Fatalf("extractArchive returned error: %v", err)
	}

	paths := BinaryPaths{
		FFmpeg:  filepath.Join(installDir, "ffmpeg"+executableSuffix()),
		FFprobe: filepath.Join(installDir, "ffprobe"+executableSuffix()),
	}
	if !binariesExist(paths) {
		t.Error("expected both binaries to be extracted")
	}
	if _, err := os.Stat(filepath.Join(installDir, "README.txt")); err == nil {
		t.Error("unrelated archive entries should be skipped")
	}
}

func TestBinaryName(t *testing.T) {
	tests := map[string]string{
		"ffmpeg":      "ffmpeg",
		"FFPROBE.EXE": "ffprobe",
		"ffplay":      "",
		"ffmpeg.txt":  "",
	}
	for in, want := range tests {
		if got := binaryName(in); got != want {
			t.Errorf("binaryName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractEmbedded(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("binary")); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	saved := bundledArchives
	t.Cleanup(func() { bundledArchives = saved })

	installDir := t.TempDir()

	bundledArchives = nil
	if ok, err := extractEmbedded("ffmpeg-6.1-linux-64.zip", installDir); ok || err != nil {
		t.Fatalf("without a bundle got (%v, %v)", ok, err)
	}

	bundledArchives = fstest.MapFS{
		"ffmpeg-6.1-linux-64.zip": &fstest.MapFile{Data: buf.Bytes()},
	}
	if ok, err := extractEmbedded("ffmpeg-6.1-win-64.zip", installDir); ok || err != nil {
		t.Fatalf("missing asset got (%v, %v)", ok, err)
	}

	ok, err := extractEmbedded("ffmpeg-6.1-linux-64.zip", installDir)
	if err != nil || !ok {
		t.Fatalf("extractEmbedded got (%v, %v)", ok, err)
	}
	paths := BinaryPaths{
		FFmpeg:  filepath.Join(installDir, "ffmpeg"+executableSuffix()),
		FFprobe: filepath.Join(installDir, "ffprobe"+executableSuffix()),
	}
	if !binariesExist(paths) {
		t.Error("expected both binaries to be extracted")
	}
}
