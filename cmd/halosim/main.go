package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/halosim/internal/config"
	"github.com/san-kum/halosim/internal/experiment"
	"github.com/san-kum/halosim/internal/export"
	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/history"
	"github.com/san-kum/halosim/internal/storage"
	"github.com/san-kum/halosim/internal/viz"
)

var (
	dataDir string
	// Run configuration
	preset       string
	configFile   string
	gridSize     int
	extent       float64
	dt           float64
	steps        int
	historyLimit int
	edgePolicy   string
	sources      []string
	perturbs     []string
	verbose      bool
	noSave       bool
	// Sweep
	sweepParam   string
	sweepValues  string
	sweepWorkers int
	sweepMetric  string
	// Export
	outFile   string
	fieldName string
	withField bool
	theme     string
	svgScale  int
	logScale  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "halosim",
		Short:        "2d halo formation field simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".halosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print progress")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write a run directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportJSONCmd.Flags().BoolVar(&withField, "field", false, "include the final frozen field")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a final field to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportCSVCmd.Flags().StringVar(&fieldName, "field", "frozen", "field to export (frozen, unfrozen)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a final field or the rotation curve to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&fieldName, "field", "frozen", "what to draw (frozen, unfrozen, rotation)")
	exportSVGCmd.Flags().IntVar(&svgScale, "scale", 6, "pixels per cell")
	exportSVGCmd.Flags().BoolVar(&logScale, "log", false, "log shading")
	exportSVGCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file from a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "demo", "preset to start from")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per parameter value",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "freeze_rate", "parameter to vary (dt or a physics parameter)")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "0.001,0.005,0.01", "comma-separated values")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "frozen_mass", "metric to rank by")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, initCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "demo", "preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), overrides the preset")
	cmd.Flags().IntVar(&gridSize, "grid", config.DefaultGridSize, "cells per side")
	cmd.Flags().Float64Var(&extent, "extent", config.DefaultExtent, "physical size (kpc)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (Myr)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&historyLimit, "history", 0, "snapshots kept (>0 ring, 0 all, <0 none)")
	cmd.Flags().StringVar(&edgePolicy, "edge", string(field.EdgeZero), "gradient edge policy (zero, one-sided, periodic)")
	cmd.Flags().StringArrayVar(&sources, "source", nil, "extra source x,y,mass,radius (repeatable)")
	cmd.Flags().StringArrayVar(&perturbs, "perturb", nil, "extra perturbation x,y,strength,radius (repeatable)")
}

// resolveConfig applies, in order: the preset, the config file, then every
// flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("grid") {
		cfg.GridSize = gridSize
	}
	if flags.Changed("extent") {
		cfg.Extent = extent
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("history") {
		cfg.HistoryLimit = historyLimit
	}
	if flags.Changed("edge") {
		policy, err := field.ParseEdgePolicy(edgePolicy)
		if err != nil {
			return nil, err
		}
		cfg.Physics.EdgePolicy = policy
	}
	for _, s := range sources {
		v, err := parseQuad(s)
		if err != nil {
			return nil, fmt.Errorf("--source %q: %w", s, err)
		}
		cfg.Sources = append(cfg.Sources, config.SourceConfig{X: v[0], Y: v[1], Mass: v[2], Radius: v[3]})
	}
	for _, s := range perturbs {
		v, err := parseQuad(s)
		if err != nil {
			return nil, fmt.Errorf("--perturb %q: %w", s, err)
		}
		cfg.Perturbations = append(cfg.Perturbations, config.PerturbationConfig{X: v[0], Y: v[1], Strength: v[2], Radius: v[3]})
	}

	return cfg, cfg.Validate()
}

func parseQuad(s string) ([4]float64, error) {
	var out [4]float64
	vals, err := parseFloats(s)
	if err != nil {
		return out, err
	}
	if len(vals) != 4 {
		return out, fmt.Errorf("expected 4 comma-separated values, got %d", len(vals))
	}
	copy(out[:], vals)
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func runName(cmd *cobra.Command) string {
	if configFile != "" {
		return "custom"
	}
	return preset
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg)
	if verbose {
		exp.OnProgress(func(s history.Snapshot) {
			fmt.Printf("  t = %.0f Myr, frozen mass: %.2e\n", s.Time, s.TotalFrozen)
		})
	}

	fmt.Printf("running %dx%d over %g for %d steps of %g...\n", cfg.GridSize, cfg.GridSize, cfg.Extent, cfg.Steps, cfg.Dt)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if runErr != nil && !partial(runErr, result) {
		return runErr
	}
	elapsed := time.Since(start)

	if runErr != nil {
		fmt.Printf("interrupted after %v: %v\n", elapsed, runErr)
	} else {
		fmt.Printf("completed in %v\n", elapsed)
	}
	if !noSave {
		runID, err := saveResult(runName(cmd), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	s := result.Summary
	fmt.Println("\nsummary:")
	fmt.Printf("  steps:            %d\n", s.Steps)
	fmt.Printf("  total frozen:     %.2e\n", s.TotalFrozen)
	fmt.Printf("  total source:     %.2e\n", s.TotalSource)
	fmt.Printf("  frozen fraction:  %.3e\n", s.FrozenFraction)
	fmt.Printf("  max velocity:     %.1f at r = %.2f\n", s.VMax, s.RMax)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
	return runErr
}

// partial reports whether err stopped a run between steps, leaving a result
// worth keeping.
func partial(err error, result *experiment.Result) bool {
	var stepErr *experiment.StepError
	return result != nil && errors.As(err, &stepErr)
}

func saveResult(name string, result *experiment.Result) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(name, result)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	return viz.RunLive(cfg)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tGRID\tSTEPS\tDT\tFROZEN\tVMAX")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%g\t%.2e\t%.1f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridSize, run.GridSize,
			run.Steps,
			run.Dt,
			run.Summary.TotalFrozen,
			run.Summary.VMax,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frozen, err := st.LoadField(runID, "frozen")
	if err != nil {
		return err
	}
	profile, nfw, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}
	rot, err := st.LoadRotation(runID)
	if err != nil {
		return err
	}
	hist, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d over %g, %d steps of %g\n\n", meta.GridSize, meta.GridSize, meta.Extent, meta.Steps, meta.Dt)
	fmt.Println("frozen density (log):")
	fmt.Println(viz.Heatmap(frozen, viz.HeatmapOptions{Width: 60, Log: true}))
	fmt.Println()
	fmt.Println(viz.ProfilePlot(profile, nfw))
	fmt.Println()
	fmt.Println(viz.RotationPlot(rot))
	if len(hist) > 1 {
		fmt.Println()
		fmt.Println(viz.MassPlot(hist))
	}
	return nil
}

// output returns stdout, or the --output file.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	return storage.New(dataDir).ExportJSON(w, args[0], withField)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	f, err := storage.New(dataDir).LoadField(args[0], fieldName)
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	return storage.ExportCSV(w, f)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	viz.SetTheme(theme)

	var doc string
	if fieldName == "rotation" {
		curve, err := st.LoadRotation(args[0])
		if err != nil {
			return err
		}
		doc = export.CurveToSVG(curve.Radius, curve.Velocity, 640, 400, string(viz.CurrentTheme.Accent))
	} else {
		f, err := st.LoadField(args[0], fieldName)
		if err != nil {
			return err
		}
		doc = export.FieldToSVG(f, svgScale, logScale)
	}
	if doc == "" {
		return fmt.Errorf("nothing to draw for %s", args[0])
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = io.WriteString(w, doc)
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tSTEPS\tDT\tSOURCES\tPERTURBATIONS")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%g\t%d\t%d\n",
			name, p.GridSize, p.GridSize, p.Steps, p.Dt, len(p.Sources), len(p.Perturbations))
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s from preset %s\n", args[0], preset)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	values, err := parseFloats(sweepValues)
	if err != nil {
		return fmt.Errorf("--values: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %s over %v...\n", sweepParam, values)
	start := time.Now()
	points, err := experiment.Sweep(ctx, cfg, sweepParam, values, sweepWorkers)
	if err != nil {
		return err
	}
	fmt.Printf("completed %d runs in %v\n\n", len(points), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFROZEN\tFRACTION\tVMAX\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	for _, p := range points {
		s := p.Result.Summary
		fmt.Fprintf(w, "%g\t%.3e\t%.3e\t%.1f\t%.6g\n", p.Value, s.TotalFrozen, s.FrozenFraction, s.VMax, p.Result.Metrics[sweepMetric])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := experiment.Best(points, sweepMetric); ok {
		fmt.Printf("\nbest %s: %s = %g\n", sweepMetric, sweepParam, best.Value)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
