package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/intelligrit/room-index/internal/config"
	"github.com/intelligrit/room-index/internal/model"
	"github.com/intelligrit/room-index/internal/store"
	"github.com/spf13/cobra"
)

var (
	indexPath  string
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "room-index",
	Short: "Build and query an index of free university rooms",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("index") {
			indexPath = cfg.Output.Path
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "index.json", "Path of the index file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func Execute() error {
	return rootCmd.Execute()
}

func readIndex() (*model.Index, error) {
	idx, err := store.ReadIndexFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("reading index (run scrape first): %w", err)
	}
	return idx, nil
}
