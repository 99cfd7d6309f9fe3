package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"Unhoster/internal/app"
	"Unhoster/internal/config"
	"Unhoster/internal/domain"
	"Unhoster/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath  string
	output      string
	replace     bool
	concurrency int
	timeout     time.Duration
	pick        string
	schema      string
	nested      bool
	logLevel    string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "unhoster [flags] <json_input>...",
		Short:         "Download the externally hosted images and models of Tabletop Simulator saves",
		Long:          "Input is either a WorkshopFileInfos.json index, which prompts for one save, or one or more save .json files.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logging.New(cfg.Logging.Level)
			application := app.New(cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout())

			_, err = application.Run(ctx, args, flags.pick)
			if errors.Is(err, domain.ErrSelectionAborted) {
				logger.Info("selection aborted, nothing retrieved")
				return nil
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Path to a YAML config file (default $UNHOSTER_CONFIG)")
	f.StringVarP(&flags.output, "output", "o", "", "Where to store the Images and Models subdirectories (default <input dir>/Retrieved)")
	f.BoolVarP(&flags.replace, "replace", "r", false, "Replace files already in the output directory")
	f.IntVarP(&flags.concurrency, "concurrency", "n", 0, "Maximum parallel downloads")
	f.DurationVar(&flags.timeout, "timeout", 0, "Per-download timeout")
	f.StringVar(&flags.pick, "pick", "", "Select a manifest entry by name or unique prefix instead of prompting")
	f.StringVar(&flags.schema, "schema", "", "Field schema used to find asset URLs (default|extended)")
	f.BoolVar(&flags.nested, "nested", false, "Also scan contained objects and alternate states")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	return cmd
}

// apply overrides cfg with the flags that were set explicitly.
func (r rootFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Output.Dir = r.output
	}
	if f.Changed("replace") {
		cfg.Output.Overwrite = r.replace
	}
	if f.Changed("concurrency") {
		cfg.Fetch.Concurrency = r.concurrency
	}
	if f.Changed("timeout") {
		cfg.Fetch.Timeout = r.timeout
	}
	if f.Changed("schema") {
		cfg.Extractor.Schema = r.schema
	}
	if f.Changed("nested") {
		cfg.Extractor.Nested = r.nested
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = r.logLevel
	}
}
