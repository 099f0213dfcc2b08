package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flowsynth/internal/cache"
	"github.com/san-kum/flowsynth/internal/config"
	"github.com/san-kum/flowsynth/internal/generators"
	"github.com/san-kum/flowsynth/internal/metrics"
	"github.com/san-kum/flowsynth/internal/spectral"
	"github.com/san-kum/flowsynth/internal/storage"
	"github.com/san-kum/flowsynth/internal/viz"
)

// newRegistry wires the spectral solver and the configured cache into the
// generator registry. An unusable cache directory disables caching; the
// kolmogorov generator then recomputes.
func newRegistry(cfg *config.Config, logger *slog.Logger) *generators.Registry {
	if logger == nil {
		logger = slog.Default()
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Warn("cache unavailable, recomputing", slog.String("dir", cfg.Cache.Dir), slog.Any("error", err))
		c = nil
	}
	solver := spectral.New(logger)
	solver.Integrator = cfg.Solver.Integrator
	solver.Drag = cfg.Solver.Drag
	solver.VeloMax = cfg.Solver.VeloMax
	return generators.NewRegistry(solver, c, logger)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	logger := newLogger(level.String())

	registry := newRegistry(cfg, logger)
	gen, err := registry.Configure(cfg.Generator, cfg.Params)
	if err != nil {
		return err
	}
	g := cfg.GridFor(gen.Domain())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("generating %s on %s grid, %d steps...\n", gen.Name(), g, cfg.Steps)
	start := time.Now()

	pair, err := gen.Generate(ctx, cfg.Steps, g)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}
	elapsed := time.Since(start)

	vals := metrics.Evaluate(pair, g, metrics.Default()...)
	genParams := gen.GetParams()

	st := storage.New(cfg.DataDir)
	runID, err := st.Save(storage.RunMetadata{
		Generator: gen.Name(),
		Seed:      int64(genParams["seed"]),
		Grid:      g,
		Params:    genParams,
		Metrics:   vals,
	}, pair)
	if err != nil {
		return err
	}
	logger.Debug("run saved", slog.String("id", runID), slog.String("dir", st.Dir()))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("shape: %s\n", pair.Shape())
	fmt.Println("\nmetrics:")
	for _, k := range metrics.Names(vals) {
		fmt.Printf("  %s: %.6f\n", k, vals[k])
	}

	if outPath != "" && cfg.Steps > 0 {
		if err := viz.SavePNG(outPath, pair.U, cfg.Steps-1, g, nil, gen.Name()+" u"); err != nil {
			return err
		}
		fmt.Printf("\nplot saved to %s\n", outPath)
	}
	return nil
}

func listGenerators(cmd *cobra.Command, args []string) error {
	registry := generators.NewRegistry(nil, nil, nil)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDOMAIN\tPARAMS")
	for _, name := range registry.List() {
		gen, err := registry.Get(name)
		if err != nil {
			return err
		}
		lx, ly := gen.Domain()
		p := gen.GetParams()
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%g", k, p[k])
		}
		fmt.Fprintf(w, "%s\t%.4gx%.4g\t%s\n", name, lx, ly, strings.Join(parts, " "))
	}
	return w.Flush()
}

func cacheKey(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, "kolmogorov")
	if err != nil {
		return err
	}
	registry := generators.NewRegistry(nil, nil, nil)
	gen, err := registry.Configure("kolmogorov", cfg.Params)
	if err != nil {
		return err
	}
	k := gen.(*generators.Kolmogorov)
	key, err := k.CacheKey(cfg.Steps, cfg.GridFor(k.Domain()))
	if err != nil {
		return err
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	fmt.Println(key)
	if c.Enabled() {
		path := c.Path(key)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("cached: %s\n", path)
		} else {
			fmt.Println("not cached")
		}
	}
	return nil
}

func openCache(cmd *cobra.Command) (*cache.Cache, error) {
	cfg, err := baseConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Cache.Enabled = true
	return cache.New(cfg.Cache)
}

func cacheList(cmd *cobra.Command, args []string) error {
	c, err := openCache(cmd)
	if err != nil {
		return err
	}
	keys, err := c.Keys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Println("cache is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
	for _, k := range keys {
		info, err := os.Stat(c.Path(k))
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", k, info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func cacheClear(cmd *cobra.Command, args []string) error {
	c, err := openCache(cmd)
	if err != nil {
		return err
	}
	n, err := c.Clear()
	if err != nil {
		return err
	}
	fmt.Printf("removed %d entries from %s\n", n, c.Dir())
	return nil
}
