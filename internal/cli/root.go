package cli

import (
	"fmt"

	"github.com/mgpai22/tilawa/internal/config"
	"github.com/mgpai22/tilawa/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tilawa",
	Short: "Recitation video builder",
	Long: `Tilawa assembles short recitation videos from per-verse audio clips.

It concatenates the clips for a verse range, times one subtitle cue per verse
from the measured clip durations, and renders the result over a background
image with ffmpeg.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/tilawa/config.toml or ./tilawa.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}

func loadConfig() (*config.Config, error) {
	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if exists {
		logger.Debugw("Loaded config", "path", resolved)
	} else {
		logger.Debugw("No config file found, using defaults", "path", resolved)
	}
	return cfg, nil
}
