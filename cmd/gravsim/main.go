package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/collision"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	configFile   string
	dt           float64
	duration     float64
	stepper      string
	workers      int
	sampleEvery  int
	noCollisions bool
	stepsPerTick int

	benchRuns int

	columns []string
	svgOut  string

	posA, velA, posB, velB []float64
	radiusA, radiusB       float64
	staticA, staticB       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "2-D gravity and collision lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record positions every n steps")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerTick, "speed", 1, "steps per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", nil, "columns to plot (default: energy and every x)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&columns, "column", nil, "column to analyze (default: first moving body's x)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw recorded orbits as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default: <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "time every stepper and check runs are reproducible",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "parallel runs per stepper")

	collideCmd := &cobra.Command{
		Use:   "collide",
		Short: "test whether two circles touch within one step",
		RunE:  collide,
	}
	collideCmd.Flags().Float64SliceVar(&posA, "pa", []float64{0, 0}, "position of A (x,y)")
	collideCmd.Flags().Float64SliceVar(&velA, "va", []float64{0, 0}, "velocity of A (x,y)")
	collideCmd.Flags().Float64SliceVar(&posB, "pb", []float64{0, 0}, "position of B (x,y)")
	collideCmd.Flags().Float64SliceVar(&velB, "vb", []float64{0, 0}, "velocity of B (x,y)")
	collideCmd.Flags().Float64Var(&radiusA, "ra", 1, "radius of A")
	collideCmd.Flags().Float64Var(&radiusB, "rb", 1, "radius of B")
	collideCmd.Flags().BoolVar(&staticA, "static-a", false, "A is a static body")
	collideCmd.Flags().BoolVar(&staticB, "static-b", false, "B is a static body")
	collideCmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "step length")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, analyzeCmd, presetsCmd, benchCmd, collideCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&stepper, "stepper", config.DefaultStepper, fmt.Sprintf("stepper %v", integrators.Names()))
	cmd.Flags().IntVar(&workers, "workers", 0, "kick workers for the parallel stepper (0 = one per CPU)")
	cmd.Flags().BoolVar(&noCollisions, "no-collisions", false, "skip collision detection")
}

func newLogger() (*zap.Logger, error) {
	return logging.New(logging.Level(logLevel), logFormat)
}

// loadScenario resolves the preset named in args (default "pool"), then the
// config file, then any flags set on the command line.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case len(args) == 1:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.GetPreset("pool")
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("stepper") {
		cfg.Stepper = stepper
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if noCollisions {
		off := false
		cfg.Collisions = &off
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ms, err := experiment.NewRegistry().Metrics(cfg)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, log)
	if err := exp.Setup(ms); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%d bodies, dt=%.4f, %.1fs)...\n", cfg.Name, len(cfg.Bodies), cfg.Dt, cfg.Duration)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (t=%.4f)\n", result.Steps, result.Time)
	fmt.Printf("digest: %016x\n", result.Digest)
	fmt.Printf("collisions: %d\n", len(result.Collisions))
	fmt.Println("\nmetrics:")
	for _, name := range experiment.NewRegistry().ListMetrics() {
		if val, ok := result.Metrics[name]; ok {
			fmt.Printf("  %s: %.6g\n", name, val)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run stopped early: %w", runErr)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	// The terminal belongs to the viewer, so only errors are logged.
	log, err := logging.New(logging.LevelError, logFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	m, err := viz.NewModel(cfg, log)
	if err != nil {
		return err
	}
	m.StepsPerTick = max(stepsPerTick, 1)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPPER\tSTEPS\tHITS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Stepper,
			run.Steps,
			run.Collisions,
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

	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states.Rows) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(states.Rows))

	names := columns
	if len(names) == 0 {
		for _, c := range states.Columns {
			if c == "energy" || strings.HasSuffix(c, ".x") {
				names = append(names, c)
			}
		}
	}

	maxPlots := 6
	for i, name := range names {
		if i == maxPlots {
			break
		}
		data, ok := states.Column(name)
		if !ok {
			return fmt.Errorf("unknown column %q (available: %v)", name, states.Columns)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states.Rows) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, states)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(meta, states)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	svg := export.OrbitsToSVG(export.Tracks(meta.Labels, states.Frames(meta.Labels)), 800, 800)
	if svg == "" {
		return fmt.Errorf("no data to export")
	}

	path := svgOut
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	name := ""
	if len(columns) > 0 {
		name = columns[0]
	} else {
		// Labels list static bodies first.
		statics := 0
		for _, b := range meta.Bodies {
			if b.Kind == body.Static {
				statics++
			}
		}
		if statics >= len(meta.Labels) {
			return fmt.Errorf("run has no moving bodies")
		}
		name = meta.Labels[statics] + ".x"
	}

	data, ok := states.Column(name)
	if !ok {
		return fmt.Errorf("unknown column %q (available: %v)", name, states.Columns)
	}

	sampleDt := meta.Dt * float64(max(meta.SampleEvery, 1))
	spectrum, err := analysis.DominantPeriod(data, sampleDt)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", name)

	plotData := spectrum.Power[:max(len(spectrum.Power)/4, 1)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+name+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Printf("dominant frequency: %.4f\n", spectrum.Frequency)
	if spectrum.Frequency > 0 {
		fmt.Printf("period: %.3f s\n", spectrum.Period)
	}
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		path := args[0] + ".yaml"
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tDURATION\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		cfg := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%.1fs\t%s\n", name, len(cfg.Bodies), cfg.Duration, cfg.Description)
	}
	return w.Flush()
}

func benchScenario(cmd *cobra.Command, args []string) error {
	if benchRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", benchRuns)
	}
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d bodies, %d runs, %d cpus)\n\n", cfg.Name, cat.Len(), benchRuns, runtime.NumCPU())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tSTEPS\tTIME\tSTEPS/SEC\tDIGEST\tAGREE")

	digests := make(map[string]uint64)
	for _, name := range integrators.Names() {
		sc := cfg.SimConfig()
		sc.Stepper = name

		start := time.Now()
		results, err := sim.NewEnsemble(cat, sc, benchRuns).Run(context.Background(), cfg.Duration)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		steps := 0
		for _, r := range results {
			steps += r.Steps
		}
		digests[name] = results[0].Digest

		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%016x\t%v\n",
			name, results[0].Steps, elapsed, float64(steps)/elapsed.Seconds(), results[0].Digest, sim.Agree(results))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if digests["symplectic"] != digests["parallel"] {
		fmt.Println("\nnote: parallel kick sums each pair from both sides; digests may differ from symplectic in the last bits")
	}
	return nil
}

func vec(name string, v []float64) (body.Vec2, error) {
	if len(v) != 2 {
		return body.Vec2{}, fmt.Errorf("--%s wants two values, got %d", name, len(v))
	}
	return body.V(v[0], v[1]), nil
}

func collide(cmd *cobra.Command, args []string) error {
	pa, err := vec("pa", posA)
	if err != nil {
		return err
	}
	va, err := vec("va", velA)
	if err != nil {
		return err
	}
	pb, err := vec("pb", posB)
	if err != nil {
		return err
	}
	vb, err := vec("vb", velB)
	if err != nil {
		return err
	}

	a := collision.Collider{Name: "A", Position: pa, Velocity: va, Radius: radiusA, Moving: !staticA}
	b := collision.Collider{Name: "B", Position: pb, Velocity: vb, Radius: radiusB, Moving: !staticB}
	if staticA {
		a.Velocity = body.Vec2{}
	}
	if staticB {
		b.Velocity = body.Vec2{}
	}

	hit := collision.Test(dt, a, b)

	fmt.Println(viz.Title.Render("swept circle test"))
	fmt.Println(viz.Row("A", fmt.Sprintf("p=%s v=%s r=%g", a.Position, a.Velocity, a.Radius)))
	fmt.Println(viz.Row("B", fmt.Sprintf("p=%s v=%s r=%g", b.Position, b.Velocity, b.Radius)))
	fmt.Println(viz.Row("dt", fmt.Sprintf("%g", dt)))
	fmt.Println(viz.Row("verdict", viz.Verdict(hit)))
	return nil
}
