// Package cli implements the captionforge command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/captionforge/captionforge/internal/config"
	"github.com/captionforge/captionforge/internal/logging"
)

const skipConfigLoad = "skipConfigLoad"

// app carries per-invocation state shared by the subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *logging.Logger

	providers providers
}

// Execute runs the root command and prints the failure reason, if any, on
// stderr. Interrupts cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: interrupted")
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
	}
	return err
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{providers: defaultProviders()})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "captionforge",
		Short: "Timed caption pipeline: transcribe to SRT, translate SRT",
		Long: `captionforge turns recognized speech into SRT subtitles and translates
existing SRT files line by line while keeping every timing untouched.

Configuration is read from ~/.config/captionforge/config.toml unless
--config is given. Flags override file values.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().
		StringVarP(&a.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().
		BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newEmitCommand(a))
	rootCmd.AddCommand(newReparseTranslateCommand(a))
	rootCmd.AddCommand(newFetchCommand(a))
	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfigLoad] == "true" {
		cfg := config.Default()
		a.cfg = &cfg
	} else {
		cfg, _, _, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	logger, err := logging.New(logging.Options{
		Level:   a.cfg.Logging.Level,
		Format:  a.cfg.Logging.Format,
		Verbose: a.verbose,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}
