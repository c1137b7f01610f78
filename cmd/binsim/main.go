package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
)

var (
	dataDir    string
	logFormat  string
	verbose    bool
	configFile string
	preset     string
	seed       int64
	count      int
	frames     int
	binPower   int
	layoutKind string
	timeStep   float64
	nbhd       float64
	repulsion  float64
	attraction float64
	damping    float64
	theme      string
	svgOut     string
	runs       int
	bins       int
	column     string
	metricName string
	withAudio  bool
	searchSpec []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "binsim",
		Short: "binned 2d particle system",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".binsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().IntVar(&runs, "runs", 1, "independent seeds to average (not saved when > 1)")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the final frame as svg")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the system with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSystemFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the particle window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSystemFlags(guiCmd)
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "sonify kinetic energy")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search the tunables for the lowest metric",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	addSystemFlags(optimizeCmd)
	optimizeCmd.Flags().IntVar(&frames, "frames", 120, "frames per combination")
	optimizeCmd.Flags().StringArrayVar(&searchSpec, "param", nil, "name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "kinetic_energy", "metric to minimise")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [out.svg]",
		Short: "simulate and write the final frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}
	addSystemFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "simulate and summarise occupancy, speeds and periodicity",
		Args:  cobra.NoArgs,
		RunE:  inspectSystem,
	}
	addSystemFlags(inspectCmd)
	inspectCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	inspectCmd.Flags().IntVar(&bins, "bins", 10, "speed histogram buckets")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time frames and report neighbour query efficiency",
		Args:  cobra.NoArgs,
		RunE:  benchSystem,
	}
	addSystemFlags(benchCmd)
	benchCmd.Flags().IntVar(&frames, "frames", 120, "frames to time")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a frame column of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "kinetic_energy", "frames.csv column")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's frames as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [file]",
		Short: "export a run with its frames as json",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s %5d particles  layout=%-8s ts=%g nbhd=%g rep=%g\n",
					name, cfg.Population.Count, cfg.Population.Layout,
					cfg.Forces.TimeStep, cfg.Forces.Neighborhood, cfg.Forces.Repulsion)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [sweep.yaml]",
		Short: "run a parameter sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&metricName, "metric", "kinetic_energy", "metric to chart")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [scenario.yaml]",
		Short: "run a scripted sequence of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, optimizeCmd, snapshotCmd, inspectCmd, benchCmd,
		listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, sweepCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler
	if logFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func addSystemFlags(cmd *cobra.Command) {
	df := particles.DefaultForces()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	f.IntVar(&count, "count", config.DefaultCount, "number of particles")
	f.IntVar(&binPower, "bin-power", config.DefaultBinPower, "bin edge as a power of two")
	f.StringVar(&layoutKind, "layout", "uniform", "initial layout (uniform, lattice, noise)")
	f.Float64Var(&timeStep, "time-step", df.TimeStep, "integration scale")
	f.Float64Var(&nbhd, "nbhd", df.Neighborhood, "repulsion radius")
	f.Float64Var(&repulsion, "repulsion", df.Repulsion, "repulsion strength")
	f.Float64Var(&attraction, "attraction", df.CenterAttraction, "center attraction strength")
	f.Float64Var(&damping, "damping", df.Damping, "damping strength")
}

// loadConfig resolves the configuration: preset first, then the config
// file, then any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") || cfg.Population.Seed == 0 {
		cfg.Population.Seed = seed
	}
	if flags.Changed("count") {
		cfg.Population.Count = count
	}
	if flags.Changed("layout") {
		cfg.Population.Layout = layoutKind
	}
	if flags.Changed("bin-power") {
		cfg.Domain.BinPower = binPower
	}
	if flags.Changed("time-step") {
		cfg.Forces.TimeStep = timeStep
	}
	if flags.Changed("nbhd") {
		cfg.Forces.Neighborhood = nbhd
	}
	if flags.Changed("repulsion") {
		cfg.Forces.Repulsion = repulsion
	}
	if flags.Changed("attraction") {
		cfg.Forces.CenterAttraction = attraction
	}
	if flags.Changed("damping") {
		cfg.Forces.Damping = damping
	}
	if flags.Lookup("frames") != nil && flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Render.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
