package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/captionforge/captionforge/internal/ffmpeg"
)

// one slice of the source audio, times in seconds
type ChunkInfo struct {
	Index int
	Start float64
	End   float64
}

func (c ChunkInfo) Length() float64 {
	return c.End - c.Start
}

// settings for audio normalization before transcription
type CompressionOptions struct {
	Format     string // Output format (mp3, aac, wav)
	SampleRate int    // Sample rate in Hz
	Channels   int    // Number of channels (1=mono, 2=stereo)
	Bitrate    string // Bitrate (e.g., "64k", "128k")
}

// defaults for transcription
func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns the duration of an audio or video file in seconds.
func Probe(ctx context.Context, filePath string) (float64, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeOutput(out.Bytes())
}

func parseProbeOutput(data []byte) (float64, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("invalid duration %q", probe.Format.Duration)
	}
	return seconds, nil
}

// Normalize re-encodes the audio track of any media file (video streams are
// dropped) into a small mono file suited to speech recognition.
func Normalize(
	ctx context.Context,
	inputPath, outputPath string,
	opts CompressionOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"vn": "",              // No video
		"ar": opts.SampleRate, // Sample rate
		"ac": opts.Channels,   // Channels
	}

	switch opts.Format {
	case "aac":
		kwargs["acodec"] = "aac"
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
	default:
		kwargs["acodec"] = "libmp3lame"
	}
	if opts.Bitrate != "" && opts.Format != "wav" {
		kwargs["b:a"] = opts.Bitrate
	}

	stream := ffmpeg.Input(inputPath).Output(outputPath, kwargs)
	if err := run(ctx, stream); err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}
	return nil
}

// Cut copies [start, start+length) of audioPath into outputPath without
// re-encoding.
func Cut(
	ctx context.Context,
	audioPath, outputPath string,
	start, length float64,
) error {
	if length <= 0 {
		return fmt.Errorf("chunk length must be positive, got %.3f", length)
	}

	kwargs := ffmpeg.KwArgs{
		"t": strconv.FormatFloat(length, 'f', 3, 64),
		"c": "copy", // Copy codec for speed
	}
	input := ffmpeg.KwArgs{
		"ss": strconv.FormatFloat(start, 'f', 3, 64),
	}

	stream := ffmpeg.Input(audioPath, input).Output(outputPath, kwargs)
	if err := run(ctx, stream); err != nil {
		return fmt.Errorf("failed to cut chunk at %.3fs: %w", start, err)
	}
	return nil
}

// Plan splits total seconds into consecutive chunks of at most chunkSeconds.
func Plan(total, chunkSeconds float64) ([]ChunkInfo, error) {
	if chunkSeconds <= 0 {
		return nil, fmt.Errorf(
			"chunk duration must be positive, got %.3f",
			chunkSeconds,
		)
	}
	if total <= 0 {
		return nil, nil
	}

	var chunks []ChunkInfo
	for i := 0; ; i++ {
		start := float64(i) * chunkSeconds
		if start >= total {
			break
		}
		end := math.Min(start+chunkSeconds, total)
		chunks = append(chunks, ChunkInfo{Index: i, Start: start, End: end})
	}
	return chunks, nil
}

// ffmpeg-go builds the argument list; the process runs under ctx so an
// interrupted CLI does not leave ffmpeg behind
func run(ctx context.Context, stream *ffmpeg.Stream) error {
	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	args := stream.OverWriteOutput().GetArgs()
	cmd := exec.CommandContext(ctx, ffmpegPath, append([]string{"-hide_banner", "-loglevel", "error"}, args...)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".m4a":  true,
	".wma":  true,
	".aiff": true,
}
