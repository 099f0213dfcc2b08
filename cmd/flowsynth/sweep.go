package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flowsynth/internal/sweep"
)

func runSweep(cmd *cobra.Command, args []string) error {
	if len(vary) == 0 {
		return fmt.Errorf("sweep: at least one --vary is required")
	}
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

	axes := make([]sweep.Axis, 0, len(vary))
	for _, v := range vary {
		ax, err := sweep.ParseAxis(v)
		if err != nil {
			return err
		}
		axes = append(axes, ax)
	}

	registry := newRegistry(cfg, logger)
	gen, err := registry.Configure(cfg.Generator, cfg.Params)
	if err != nil {
		return err
	}
	s := &sweep.Sweep{
		Registry:  registry,
		Generator: cfg.Generator,
		Steps:     cfg.Steps,
		Grid:      cfg.GridFor(gen.Domain()),
		Base:      cfg.Params,
		Workers:   workers,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	n := len(sweep.Combinations(axes))
	fmt.Printf("sweeping %s over %d combinations on %s grid...\n", cfg.Generator, n, s.Grid)
	start := time.Now()
	results, err := s.Run(ctx, axes)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Warn("combination failed", slog.Any("params", r.Params), slog.Any("error", r.Err))
		}
	}
	fmt.Printf("completed in %v (%d failed)\n\n", time.Since(start), failed)

	ranked := sweep.Rank(results, metric, maximize)
	if len(ranked) == 0 {
		return fmt.Errorf("sweep: no combination produced metric %q", metric)
	}
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	names := make([]string, 0, len(axes))
	for _, ax := range axes {
		names = append(names, ax.Name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for _, r := range ranked {
		cols := make([]string, len(names))
		for i, k := range names {
			cols[i] = fmt.Sprintf("%g", r.Params[k])
		}
		fmt.Fprintf(w, "%s\t%.6g\n", strings.Join(cols, "\t"), r.Metrics[metric])
	}
	return w.Flush()
}
