package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rhizome/indexer/internal/config"
	"rhizome/indexer/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rhizome",
	Short: "Rhizome vault indexing, graph analysis, and search",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the .rhizome.db database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to rhizome.yml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// LoadConfig reads the YAML config from --config, RHIZOME_CONFIG, or
// ./rhizome.yml, in that order. Missing files yield the defaults.
func LoadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("RHIZOME_CONFIG")
	}
	if path == "" {
		path = "rhizome.yml"
	}
	return config.Load(path)
}

// DiscoverDB finds the database path using priority: env > flag > config >
// walk-up > XDG fallback.
func DiscoverDB(cfg config.Config) (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("RHIZOME_DB"); envPath != "" {
		return envPath, nil
	}

	// 2. CLI flag
	if dbPath != "" {
		return dbPath, nil
	}

	// 3. Config file
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}

	// 4. Walk up from the working directory
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, ".rhizome.db")
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 5. XDG data dir fallback
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no database found: %w", err)
	}
	return filepath.Join(home, ".local", "share", "rhizome", "index.db"), nil
}

// OpenStore loads the config, discovers the database, and opens the store.
func OpenStore() (*store.Store, config.Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, cfg, err
	}
	path, err := DiscoverDB(cfg)
	if err != nil {
		return nil, cfg, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, cfg, fmt.Errorf("creating database directory: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, cfg, err
	}
	return st, cfg, nil
}
