package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/FitrahHaque/Repetition-Engine/config"
	"github.com/FitrahHaque/Repetition-Engine/engine"
	"github.com/FitrahHaque/Repetition-Engine/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.Default()
	fields string
)

var rootCmd = &cobra.Command{
	Use:   "repetition",
	Short: "Finds repeated spans in token sequences",
	Long: `Finds recurring contiguous spans in a token sequence, such as one token per
analysed chord of a piece, and reports the intervals that share content.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Format, "format", cfg.Format, "input format: lines or annotation")
	flags.StringVar(&fields, "fields", strings.Join(cfg.Fields, ","), "annotation columns joined into one token")
	flags.IntVarP(&cfg.Window, "window", "w", cfg.Window, "look-back window in tokens, 0 for the whole sequence")
	flags.BoolVar(&cfg.Progress, "progress", cfg.Progress, "show a progress bar on stderr")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
}

// loadConfig layers flags that were set explicitly over the environment.
func loadConfig(cmd *cobra.Command, args []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("format") {
		cfg.Format = env.Format
	}
	if flags.Changed("fields") {
		cfg.Fields = config.SplitList(fields)
	} else {
		cfg.Fields = env.Fields
	}
	if !flags.Changed("window") {
		cfg.Window = env.Window
	}
	if !flags.Changed("progress") {
		cfg.Progress = env.Progress
	}
	if !flags.Changed("log-level") {
		cfg.LogLevel = env.LogLevel
	}
	if flags.Lookup("addr") != nil && !flags.Changed("addr") {
		cfg.Addr = env.Addr
	}

	if cfg.Window < 0 {
		return fmt.Errorf("%w: window %d", config.ErrInvalidConfig, cfg.Window)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewStderrLogger()
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	return nil
}

func newEngine() *engine.Engine {
	opts := engine.Options{
		Format: cfg.Format,
		Fields: cfg.Fields,
		Window: cfg.Window,
	}
	if cfg.Progress {
		opts.Progress = os.Stderr
	}
	return engine.New(opts, logging.GetGlobalLogger())
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}
