// Package cli implements the promptkeeper command-line interface: thin
// adapters over the local store plus the one sync entry point.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/promptkeeper/promptkeeper/internal/config"
	"github.com/promptkeeper/promptkeeper/internal/logging"
	"github.com/promptkeeper/promptkeeper/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Global flag values.
var (
	flagConfigDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:           "promptkeeper",
	Short:         "Promptkeeper stores prompt snippets locally and pulls them from Notion",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func resolveConfigDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	return config.DefaultDir()
}

func newLogger() logging.Logger {
	return logging.NewTextLogger(os.Stderr, flagVerbose)
}

// appContext bundles what most commands need: typed config, the viper handle
// for writes, and the opened store.
type appContext struct {
	dir   string
	v     *viper.Viper
	cfg   *config.Config
	repos *store.Repositories
	log   logging.Logger
}

func (a *appContext) Close() {
	if a.repos != nil {
		_ = a.repos.Close()
	}
}

// openConfig loads settings without touching the database. Used by the
// config subcommands.
func openConfig() (*appContext, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	v, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return &appContext{dir: dir, v: v, cfg: config.FromViper(v), log: newLogger()}, nil
}

// openApp loads settings and opens the local database.
func openApp(ctx context.Context) (*appContext, error) {
	a, err := openConfig()
	if err != nil {
		return nil, err
	}
	repos, err := store.InitDatabase(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	a.repos = repos
	return a, nil
}
