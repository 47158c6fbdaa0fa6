package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/captionforge/captionforge/internal/audio"
	"github.com/captionforge/captionforge/internal/subtitle"
)

// implements FileTranscriber using the OpenAI Audio API or any server that
// speaks it
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
	probe   func(ctx context.Context, path string) (float64, error)
}

// segment from OpenAI Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	// self-hosted OpenAI-compatible servers usually run without a key
	if apiKey == "" && opts.BaseURL == "" {
		return nil, fmt.Errorf("API key is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  openai.NewClient(reqOpts...),
		model:   model,
		options: opts,
		probe:   audio.Probe,
	}, nil
}

// transcribes single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	fallback := func() float64 {
		if t.probe == nil {
			return 0
		}
		seconds, _ := t.probe(ctx, audioPath)
		return seconds
	}

	result, err := parseVerboseJSON(resp.RawJSON(), fallback)
	if err != nil {
		// plain text answer, one segment spanning the file
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return &Result{Language: t.options.Language}, nil
		}
		duration := fallback()
		return &Result{
			Segments: []subtitle.Segment{{Start: 0, End: duration, Text: text}},
			Language: t.options.Language,
			Duration: duration,
		}, nil
	}
	if result.Language == "" {
		result.Language = t.options.Language
	}
	return result, nil
}

// parseVerboseJSON converts a verbose_json body. fallbackDuration is only
// consulted when the body has text but neither segments nor a duration.
func parseVerboseJSON(rawJSON string, fallbackDuration func() float64) (*Result, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	result := &Result{
		Language: verboseResp.Language,
		Duration: verboseResp.Duration,
	}

	if len(verboseResp.Segments) == 0 {
		text := strings.TrimSpace(verboseResp.Text)
		if text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		if result.Duration <= 0 && fallbackDuration != nil {
			result.Duration = fallbackDuration()
		}
		result.Segments = []subtitle.Segment{{
			Start: 0,
			End:   result.Duration,
			Text:  text,
		}}
		return result, nil
	}

	result.Segments = make([]subtitle.Segment, 0, len(verboseResp.Segments))
	for _, seg := range verboseResp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		result.Segments = append(result.Segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}
	return result, nil
}
