// Command mazepath loads a maze level, builds its path graph and serves or
// exports it.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"mazepath"
	"mazepath/internal/config"
	"mazepath/level"
)

var (
	configPath string
	levelFlag  string

	rootCmd = &cobra.Command{
		Use:           "mazepath",
		Short:         "Curved path graphs for maze levels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&levelFlag, "level", "", "builtin level name or level file (overrides config)")

	rootCmd.AddCommand(serveCmd, inspectCmd, exportCmd, generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and logger shared by every command.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if levelFlag != "" {
		cfg.Level = levelFlag
	}

	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// openLevel resolves a builtin name first and falls back to a file path.
func openLevel(name string) (*level.Table, error) {
	if slices.Contains(level.Names(), name) {
		return level.Builtin(name)
	}
	return level.Load(name)
}

// buildGraph opens the configured level and builds its graph.
func buildGraph(cfg config.Config, logger *slog.Logger) (*level.Table, *mazepath.Graph, error) {
	logger.Info("📂 loading level", "level", cfg.Level)
	t, err := openLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	if groups := level.Components(t); len(groups) > 1 {
		logger.Warn("⚠️  level has unreachable islands", "components", len(groups))
	}

	opts := []mazepath.Option{
		mazepath.WithStepSize(cfg.StepSize),
		mazepath.WithLogger(logger),
	}
	if cfg.Seed != 0 {
		opts = append(opts, mazepath.WithSeed(cfg.Seed))
	}

	g, err := mazepath.New(t, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build graph for %q: %w", t.Name, err)
	}

	logger.Info("✅ graph built", "level", t.Name, "nodes", g.NodeCount(), "paths", len(g.AllPaths()))
	return t, g, nil
}
