package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/spf13/cobra"

	"github.com/san-kum/flowsynth/internal/augment"
	"github.com/san-kum/flowsynth/internal/config"
	"github.com/san-kum/flowsynth/internal/field"
)

var (
	dataDir  string
	logLevel string
	// generation
	configFile string
	preset     string
	steps      int
	nx, ny     int
	lx, ly     float64
	params     []string
	seed       int64
	integrator string
	noCache    bool
	cacheDir   string
	// run inspection
	sensors     []string
	component   string
	frame       int
	outPath     string
	gifPath     string
	svgPath     string
	orientation string
	static      bool
	quiver      bool
	// transforms
	op    string
	turns int
	save  bool
	// sweeps
	vary     []string
	metric   string
	maximize bool
	workers  int
	top      int
)

func main() {
	ctx := context.Background()
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	rootCmd := &cobra.Command{
		Use:           "flowsynth",
		Short:         "synthetic flow fields for sensor placement experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run directory (default from config or "+config.EnvDataDir+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	generateCmd := &cobra.Command{
		Use:   "generate [generator]",
		Short: "generate a field and save it as a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGenerate,
	}
	addGenerationFlags(generateCmd)
	generateCmd.Flags().StringVar(&outPath, "png", "", "also write a PNG of the last slice")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "browse a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringArrayVar(&sensors, "sensor", nil, "sensor coordinate row,col (repeatable)")
	showCmd.Flags().BoolVar(&static, "static", false, "print one slice instead of starting the viewer")
	showCmd.Flags().BoolVar(&quiver, "quiver", false, "with --static, draw velocity arrows")
	showCmd.Flags().StringVar(&svgPath, "svg", "", "with --quiver, also write the arrows as SVG")
	showCmd.Flags().IntVar(&frame, "frame", 0, "time slice for --static")
	showCmd.Flags().StringVar(&component, "component", "u", "u, v or speed")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "write a heat map of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output image (default <run_id>.png)")
	plotCmd.Flags().StringVar(&gifPath, "gif", "", "also write an animation of all slices")
	plotCmd.Flags().IntVar(&frame, "frame", -1, "time slice (default last)")
	plotCmd.Flags().StringVar(&component, "component", "u", "u, v or speed")
	plotCmd.Flags().StringArrayVar(&sensors, "sensor", nil, "sensor coordinate row,col (repeatable)")

	probeCmd := &cobra.Command{
		Use:   "probe [run_id]",
		Short: "time series and spectrum at sensors",
		Args:  cobra.ExactArgs(1),
		RunE:  probeRun,
	}
	probeCmd.Flags().StringArrayVar(&sensors, "sensor", nil, "sensor coordinate row,col (repeatable)")
	probeCmd.Flags().StringVar(&component, "component", "u", "u, v or speed")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	augmentCmd := &cobra.Command{
		Use:   "augment [run_id]",
		Short: "combine u and v into one state and map sensors back",
		Args:  cobra.ExactArgs(1),
		RunE:  augmentRun,
	}
	augmentCmd.Flags().StringVar(&orientation, "orientation", "", "horizontal or vertical (default from config)")
	augmentCmd.Flags().StringArrayVar(&sensors, "sensor", nil, "sensor coordinate in the combined frame (repeatable)")
	augmentCmd.Flags().BoolVar(&save, "save", false, "save the combined state as a new run")

	transformCmd := &cobra.Command{
		Use:   "transform [run_id]",
		Short: "reflect, rotate or complex-encode a run",
		Args:  cobra.ExactArgs(1),
		RunE:  transformRun,
	}
	transformCmd.Flags().StringVar(&op, "op", "reflect", "reflect, reflect-x, rotate, augment[:orientation], cartesian or polar")
	transformCmd.Flags().IntVar(&turns, "k", 1, "quarter turns for rotate")

	sweepCmd := &cobra.Command{
		Use:   "sweep [generator]",
		Short: "evaluate metrics over a grid of parameter values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addGenerationFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&vary, "vary", nil, "swept parameter name=lo:hi:n or name=v1,v2 (repeatable)")
	sweepCmd.Flags().StringVar(&metric, "metric", "kinetic_energy", "metric to rank by")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "rank by largest metric value")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent generations (default GOMAXPROCS)")
	sweepCmd.Flags().IntVar(&top, "top", 10, "rows to print")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML dataset recipe",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the solver cache")
	scenarioCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache directory")

	presetsCmd := &cobra.Command{
		Use:   "presets [generator]",
		Short: "list available presets for a generator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for generator: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	generatorsCmd := &cobra.Command{
		Use:   "generators",
		Short: "list generators and their parameters",
		RunE:  listGenerators,
	}

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "inspect the solver cache",
	}
	cacheKeyCmd := &cobra.Command{
		Use:   "key",
		Short: "print the cache key for a kolmogorov configuration",
		Args:  cobra.NoArgs,
		RunE:  cacheKey,
	}
	addGenerationFlags(cacheKeyCmd)
	cacheListCmd := &cobra.Command{
		Use:   "list",
		Short: "list cache entries",
		RunE:  cacheList,
	}
	cacheClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "remove all cache entries",
		RunE:  cacheClear,
	}
	for _, c := range []*cobra.Command{cacheListCmd, cacheClearCmd} {
		c.Flags().StringVar(&cacheDir, "cache-dir", "", "cache directory")
	}
	cacheCmd.AddCommand(cacheKeyCmd, cacheListCmd, cacheClearCmd)

	rootCmd.AddCommand(generateCmd, listCmd, showCmd, plotCmd, probeCmd, exportCmd,
		augmentCmd, transformCmd, sweepCmd, scenarioCmd,
		presetsCmd, generatorsCmd, cacheCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		err := xerrors.New(err)
		newLogger(logLevel).ErrorContext(ctx, "command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func addGenerationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of time steps")
	f.IntVar(&nx, "nx", config.DefaultNx, "grid points along x")
	f.IntVar(&ny, "ny", config.DefaultNy, "grid points along y")
	f.Float64Var(&lx, "lx", 0, "domain length along x (default per generator)")
	f.Float64Var(&ly, "ly", 0, "domain length along y (default per generator)")
	f.StringArrayVar(&params, "param", nil, "generator parameter name=value (repeatable)")
	f.Int64Var(&seed, "seed", 0, "random seed (kolmogorov)")
	f.StringVar(&integrator, "integrator", "rk4", "solver time stepper (rk4, euler)")
	f.BoolVar(&noCache, "no-cache", false, "bypass the solver cache")
	f.StringVar(&cacheDir, "cache-dir", "", "cache directory")
}

// newLogger builds the text logger used by every command. Unknown levels fall
// back to info.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	if level == "" || l.UnmarshalText([]byte(level)) != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// baseConfig is the default config with environment and persistent flag
// overrides applied.
func baseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	applyCommonFlags(cmd, cfg)
	return cfg, nil
}

func applyCommonFlags(cmd *cobra.Command, cfg *config.Config) {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if f := cmd.Flags().Lookup("cache-dir"); f != nil && f.Changed {
		cfg.Cache.Dir = cacheDir
	}
}

// resolveConfig layers defaults, preset, config file, environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, generator string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if generator == "" {
		generator = cfg.Generator
	}
	if preset != "" {
		p := config.GetPreset(generator, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(generator))
		}
		if configFile == "" {
			cfg = p
		} else {
			cfg.Steps, cfg.Grid, cfg.Solver = p.Steps, p.Grid, p.Solver
			cfg.Params = mergeParams(p.Params, cfg.Params)
		}
	}
	cfg.Generator = generator

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	applyCommonFlags(cmd, cfg)

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("nx") {
		cfg.Grid.Nx = nx
	}
	if flags.Changed("ny") {
		cfg.Grid.Ny = ny
	}
	if flags.Changed("lx") {
		cfg.Grid.Lx = lx
	}
	if flags.Changed("ly") {
		cfg.Grid.Ly = ly
	}
	if flags.Changed("integrator") {
		cfg.Solver.Integrator = integrator
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	kv, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	if flags.Changed("seed") {
		kv["seed"] = float64(seed)
	}
	cfg.Params = mergeParams(cfg.Params, kv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeParams(base, over map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func parseParams(kvs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(kvs))
	for _, kv := range kvs {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --param %q: want name=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --param %q: %w", kv, err)
		}
		out[strings.TrimSpace(name)] = f
	}
	return out, nil
}

func parseSensors(raw []string) ([]augment.Coord, error) {
	coords := make([]augment.Coord, 0, len(raw))
	for _, s := range raw {
		c, err := augment.ParseCoord(s)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// pick selects u, v or the speed |(u, v)| of a pair.
func pick(p *field.Pair, name string) (*field.Field, error) {
	switch name {
	case "", "u":
		return p.U, nil
	case "v", "speed":
		if p.Scalar() {
			return nil, fmt.Errorf("component %s: run holds a scalar field", name)
		}
		if name == "v" {
			return p.V, nil
		}
		return p.Magnitude(), nil
	}
	return nil, fmt.Errorf("unknown component: %s (want u, v or speed)", name)
}
