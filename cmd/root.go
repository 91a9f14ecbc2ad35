package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/desktop-text/internal/config"
	"github.com/mj1618/desktop-text/internal/logging"
	"github.com/mj1618/desktop-text/internal/output"
	"github.com/mj1618/desktop-text/internal/platform"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

var (
	appConfig = config.Default()
	logger    = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "desktop-text",
	Short: "Read and edit the text of the focused UI element",
	Long: `A CLI tool that finds text in the focused UI element by phrase and moves the
caret, selects, or replaces it through the platform accessibility API.

Phrases are matched as whole words, case-insensitively, ignoring punctuation
between words. Use --phrase for a single phrase, --start and --end for a
range, or --end alone for a range from the caret.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/desktop-text/config.yaml)")
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().Duration("poll-interval", 0, "How long the accessibility thread waits for events between requests")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if platform.RequestPermissionsFunc != nil {
			platform.RequestPermissionsFunc()
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		format, err := output.ParseFormat(cfg.Output)
		if err != nil {
			return err
		}
		output.OutputFormat = format
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		appConfig, logger = cfg, log
		slog.SetDefault(log)
		return nil
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := rootCmd.PersistentFlags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := flags.GetString("format"); v != "" {
		cfg.Output = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval, _ = flags.GetDuration("poll-interval")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
