package transcribe

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/captionforge/captionforge/internal/subtitle"
)

// implements FileTranscriber using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// uploads the file, asks for a JSON transcript and deletes the upload
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = t.client.Files.Delete(context.WithoutCancel(ctx), uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(buildTranscriptionPrompt(t.options)),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := parseTranscriptionResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	var duration float64
	if n := len(segments); n > 0 {
		duration = segments[n-1].End
	}

	return &Result{
		Segments: segments,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

func buildTranscriptionPrompt(opts Options) string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken. ")
	sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', and 'text' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers). ")

	if opts.Language != "" {
		fmt.Fprintf(&sb, "The audio is in %s. ", opts.Language)
	}
	if opts.Prompt != "" {
		sb.WriteString(opts.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")
	return sb.String()
}

func parseTranscriptionResponse(resp *genai.GenerateContentResponse) ([]subtitle.Segment, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := strings.TrimSpace(resp.Text())
	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	found, err := extractTranscriptSegments(cleanJSONResponse(responseText))
	if err != nil {
		return nil, fmt.Errorf("%w (response: %s)", err, truncateString(responseText, 200))
	}

	segments := make([]subtitle.Segment, 0, len(found))
	for _, ts := range found {
		text := strings.TrimSpace(ts.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			Start: ts.Start,
			End:   ts.End,
			Text:  text,
		})
	}
	return segments, nil
}
