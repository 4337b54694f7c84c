package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Edusharks/block-ide-vite-sub001/internal/cli"
	"github.com/Edusharks/block-ide-vite-sub001/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blockfactory",
	Short: "Blockfactory designs custom visual programming blocks",
	Long: `Blockfactory edits custom block definitions (label template, inputs, connections,
colour and code template), previews their shape and exports the block schema
and python template as a single JSON or YAML artifact.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "blockfactory.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and lifecycle tracing")
	rootCmd.PersistentFlags().String("library-dir", "", "Directory of library blocks")
}

// loadConfig reads the configuration file, environment and then the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v, _ := cmd.Flags().GetString("library-dir"); v != "" {
		cfg.Library.Dir = v
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := cli.NewLogger(cfg.Log, debug)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
