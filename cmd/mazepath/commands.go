package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mazepath/internal/server"
	"mazepath/level"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the level's paths and direction queries over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}

		t, g, err := buildGraph(cfg, logger)
		if err != nil {
			return err
		}

		srv := server.New(g, server.Options{
			Level:   t.Name,
			Spacing: cfg.Spacing,
			Logger:  logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("🚀 server starting", "addr", cfg.Listen)
		logger.Info("endpoints",
			"GET", "/health /start /paths /paths.geojson /paths/region /nodes/closest /random /metrics",
			"POST", "/query")
		return srv.ListenAndServe(ctx, cfg.Listen)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a summary of the level graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		t, g, err := buildGraph(cfg, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		paths := g.AllPaths()
		horizontal := 0
		reversed := 0
		for _, p := range paths {
			if p.Horizontal() {
				horizontal++
			}
			if p.Reversed() {
				reversed++
			}
		}

		fmt.Fprintf(out, "level:       %s\n", t.Name)
		fmt.Fprintf(out, "nodes:       %d\n", g.NodeCount())
		fmt.Fprintf(out, "paths:       %d (%d horizontal, %d vertical, %d reversed)\n",
			len(paths), horizontal, len(paths)-horizontal, reversed)
		fmt.Fprintf(out, "components:  %d\n", len(level.Components(t)))
		fmt.Fprintf(out, "start:       %s on %s\n", g.StartNode(), g.StartPath())
		b := g.Bound()
		fmt.Fprintf(out, "bounds:      (%.2f, %.2f) to (%.2f, %.2f)\n", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the level's paths as GeoJSON or JSON line strings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		_, g, err := buildGraph(cfg, logger)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		var data []byte
		switch format {
		case "geojson":
			fc, err := g.FeatureCollection(cfg.Spacing)
			if err != nil {
				return err
			}
			data, err = fc.MarshalJSON()
			if err != nil {
				return fmt.Errorf("failed to marshal geojson: %w", err)
			}
		case "json":
			lines, err := g.LineStrings(cfg.Spacing)
			if err != nil {
				return err
			}
			data, err = json.MarshalIndent(lines, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal lines: %w", err)
			}
		default:
			return fmt.Errorf("unknown format %q", format)
		}

		var w io.Writer = cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}

		logger.Info("💾 exported", "format", format, "bytes", len(data))
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random grid maze level file",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()
		if err != nil {
			return err
		}

		rows, _ := cmd.Flags().GetInt("rows")
		cols, _ := cmd.Flags().GetInt("cols")
		spacing, _ := cmd.Flags().GetFloat64("spacing")
		extra, _ := cmd.Flags().GetInt("extra")
		seed, _ := cmd.Flags().GetUint64("seed")
		outPath, _ := cmd.Flags().GetString("out")

		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		t, err := level.Grid(rows, cols, spacing, extra, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return err
		}
		if err := level.Save(outPath, t); err != nil {
			return err
		}

		logger.Info("✅ level generated", "file", outPath, "nodes", len(t.Coords), "edges", len(t.Connections), "seed", seed)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (overrides config)")

	exportCmd.Flags().String("format", "geojson", "export format: geojson or json")
	exportCmd.Flags().String("out", "", "output file (default stdout)")

	generateCmd.Flags().Int("rows", 4, "maze rows")
	generateCmd.Flags().Int("cols", 6, "maze columns")
	generateCmd.Flags().Float64("spacing", 8, "distance between lattice nodes")
	generateCmd.Flags().Int("extra", 3, "extra passages beyond the spanning tree")
	generateCmd.Flags().Uint64("seed", 0, "random seed (0 uses the clock)")
	generateCmd.Flags().String("out", "level.yaml", "output level file (.yaml or .json)")
}
