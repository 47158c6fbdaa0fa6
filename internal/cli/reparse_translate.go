package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/captionforge/captionforge/internal/pipeline"
	"github.com/captionforge/captionforge/internal/subtitle"
	"github.com/captionforge/captionforge/internal/translate"
)

func newReparseTranslateCommand(a *app) *cobra.Command {
	var (
		from     string
		to       string
		provider string
		model    string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:     "reparse-translate <input-file> <output-file>",
		Aliases: []string{"translate"},
		Short:   "Translate an SRT file line by line, keeping the timings",
		Long: `Parse an SRT file, translate every non-empty caption line and write the
result with the original timing lines and fresh 1-based numbering.

Blank lines are kept as they are and never sent to the model. Malformed
blocks are skipped unless --strict is set. A .vtt input is read as WebVTT;
the output is always SRT.`,
		Example: `  captionforge reparse-translate talk.srt talk.ru.srt
  captionforge reparse-translate talk.srt talk.de.srt --to de --provider anthropic`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("from") {
				a.cfg.Translate.SourceLanguage = from
			}
			if flags.Changed("to") {
				a.cfg.Translate.TargetLanguage = to
			}
			if flags.Changed("provider") {
				a.cfg.Translate.Provider = strings.ToLower(strings.TrimSpace(provider))
			}
			if flags.Changed("model") {
				a.cfg.Translate.Model = model
			}
			if flags.Changed("strict") {
				a.cfg.Output.Strict = strict
			}
			return a.runReparseTranslate(cmd, args[0], args[1])
		},
	}

	cmd.Flags().
		StringVar(&from, "from", "", "Source language tag (default from config)")
	cmd.Flags().
		StringVar(&to, "to", "", "Target language tag (default from config)")
	cmd.Flags().
		StringVar(&provider, "provider", "", "Translation provider (openai, gemini, anthropic)")
	cmd.Flags().
		StringVarP(&model, "model", "m", "", "Model name (default depends on provider)")
	cmd.Flags().
		BoolVar(&strict, "strict", false, "Fail on malformed subtitle blocks")

	return cmd
}

func (a *app) runReparseTranslate(cmd *cobra.Command, input, output string) error {
	ctx := cmd.Context()
	logger := a.logger

	pair, err := translate.ParsePair(a.cfg.Translate.SourceLanguage, a.cfg.Translate.TargetLanguage)
	if err != nil {
		return err
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open subtitles: %w", err)
	}
	defer in.Close()

	tr, err := a.providers.translator(ctx, a.cfg, pair)
	if err != nil {
		return err
	}

	logger.Infow("Translating subtitles",
		"input", input,
		"output", output,
		"pair", pair.String(),
		"provider", a.cfg.Translate.Provider,
		"strict", a.cfg.Output.Strict,
	)

	reparser := &pipeline.Reparser{
		Translator: tr,
		Strict:     a.cfg.Output.Strict,
		Logger:     logger,
		Decode:     subtitle.DecoderFor(input),
	}

	start := time.Now()
	result, err := reparser.Run(ctx, in, subtitle.FileSink(output))
	if err != nil {
		return err
	}

	logger.Infow("Translation complete",
		"output", output,
		"entries", result.Entries,
		"lines", result.Translated,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
