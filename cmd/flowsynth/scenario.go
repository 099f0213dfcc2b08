package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/flowsynth/internal/scenario"
	"github.com/san-kum/flowsynth/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	cfg, err := baseConfig(cmd)
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := cfg.Level()
	logger := newLogger(level.String())

	registry := newRegistry(cfg, logger)
	runner := &scenario.Runner{
		Registry: registry,
		Store:    storage.New(cfg.DataDir),
		Base:     cfg,
		Logger:   logger,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	results, runErr := runner.Run(ctx, sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tRUN\tSOURCE\tOP\tSHAPE")
	for _, r := range results {
		src, op := r.Source, r.Op
		if src == "" {
			src, op = "-", "generate"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Step, r.RunID, src, op, r.Shape)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
