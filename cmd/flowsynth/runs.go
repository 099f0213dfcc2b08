package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/flowsynth/internal/analysis"
	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/storage"
	"github.com/san-kum/flowsynth/internal/viz"
)

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := baseConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func loadRun(cmd *cobra.Command, runID string) (*storage.Store, *storage.RunMetadata, *field.Pair, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	pair, err := st.LoadFields(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	return st, meta, pair, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGENERATOR\tTIME\tSHAPE\tKIND\tSOURCE")

	for _, run := range runs {
		kind := "scalar"
		if run.Vector {
			kind = "vector"
		}
		source := "-"
		if run.Source != "" {
			source = run.Source + " (" + run.Op + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Generator,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Shape,
			kind,
			source,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	_, meta, pair, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	coords, err := parseSensors(sensors)
	if err != nil {
		return err
	}

	if !static {
		return viz.Run(viz.NewViewer(meta.ID, pair, coords))
	}

	f, err := pick(pair, component)
	if err != nil {
		return err
	}
	if frame < 0 || frame >= f.T {
		return fmt.Errorf("frame %d out of range [0, %d)", frame, f.T)
	}
	fmt.Printf("run: %s  component: %s  frame: %d/%d\n\n", meta.ID, component, frame, f.T)
	if quiver {
		c := viz.QuiverCanvas(pair, frame, 60, 20)
		fmt.Print(c.String())
		if svgPath == "" {
			return nil
		}
		out, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := c.WriteSVG(out, 4, viz.CmapOcean.At(1), "#0a0a0a"); err != nil {
			return err
		}
		fmt.Printf("\nsvg saved to %s\n", svgPath)
		return nil
	}
	fmt.Print(viz.Heatmap(f, frame, coords, viz.DefaultHeatmapOptions()))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	_, meta, pair, err := loadRun(cmd, runID)
	if err != nil {
		return err
	}
	if meta.Shape.T == 0 {
		return fmt.Errorf("no data to plot")
	}
	f, err := pick(pair, component)
	if err != nil {
		return err
	}
	coords, err := parseSensors(sensors)
	if err != nil {
		return err
	}

	t := frame
	if t < 0 {
		t = f.T - 1
	}
	path := outPath
	if path == "" {
		path = runID + ".png"
	}
	title := fmt.Sprintf("%s %s t=%d", meta.Generator, component, t)
	if err := viz.SavePNG(path, f, t, meta.Grid, coords, title); err != nil {
		return err
	}
	fmt.Printf("plot saved to %s\n", path)

	if gifPath != "" {
		out, err := os.Create(gifPath)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := viz.SaveGIF(out, f, viz.CmapDiverging, max(1, 256/max(f.Nx, f.Ny)), 10); err != nil {
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Printf("animation saved to %s\n", gifPath)
	}
	return nil
}

func probeRun(cmd *cobra.Command, args []string) error {
	_, meta, pair, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	coords, err := parseSensors(sensors)
	if err != nil {
		return err
	}
	if len(coords) == 0 {
		return fmt.Errorf("at least one --sensor row,col is required")
	}
	f, err := pick(pair, component)
	if err != nil {
		return err
	}
	series, err := analysis.ProbeAll(f, coords)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("generator: %s\n", meta.Generator)
	s := analysis.Stats(f)
	fmt.Printf("%s: min %.4g  max %.4g  mean %.4g  std %.4g\n", component, s.Min, s.Max, s.Mean, s.Std)

	for i, c := range coords {
		fmt.Printf("\nsensor %s\n", c)
		if len(series[i]) < 2 {
			fmt.Println("  (too few samples to plot)")
			continue
		}
		fmt.Println(asciigraph.Plot(series[i],
			asciigraph.Height(10), asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s over time", component))))

		ps := analysis.PowerSpectrum(series[i])
		fmt.Printf("\ndominant frequency bin: %d of %d\n", analysis.DominantFrequency(ps), len(ps)-1)
		if len(ps) > 2 {
			fmt.Println(asciigraph.Plot(ps[1:],
				asciigraph.Height(6), asciigraph.Width(60),
				asciigraph.Caption("power spectrum (excluding DC)")))
		}

		if !pair.Scalar() {
			pts, err := analysis.Hodograph(pair, c)
			if err != nil {
				return err
			}
			fmt.Println("\nhodograph (u, v):")
			fmt.Print(analysis.HodographASCII(pts, 40, 12))
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	_, meta, pair, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.ExportJSON(os.Stdout, *meta, pair)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := storage.ExportJSON(out, *meta, pair); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %s to %s\n", meta.ID, outPath)
	return out.Close()
}
