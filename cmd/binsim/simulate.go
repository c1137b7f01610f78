package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/binsim/internal/analysis"
	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/experiment"
	"github.com/san-kum/binsim/internal/export"
	"github.com/san-kum/binsim/internal/gui"
	"github.com/san-kum/binsim/internal/optim"
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/sim"
	"github.com/san-kum/binsim/internal/storage"
	"github.com/san-kum/binsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runs > 1 {
		fmt.Printf("running %d seeds of %d particles...\n", runs, cfg.Population.Count)
		start := time.Now()
		results, err := exp.RunEnsemble(ctx, runs)
		if err != nil {
			return err
		}
		fmt.Printf("completed in %v\n", time.Since(start))
		printMetrics(sim.MeanMetrics(results))
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %d particles for %d frames...\n", cfg.Population.Count, cfg.Run.Frames)
	start := time.Now()
	sys, result, err := exp.Run(ctx)
	if result == nil {
		return err
	}
	elapsed := time.Since(start)

	// A canceled run is still saved with the frames it reached.
	runID, saveErr := st.Save(storage.RunMetadata{
		Preset:    preset,
		Seed:      cfg.Population.Seed,
		Particles: cfg.Population.Count,
		FrameDt:   cfg.Run.FrameDt,
		Layout:    cfg.Population.Layout,
	}, cfg, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	printRunErrors(os.Stdout, result)
	printMetrics(result.Metrics)

	if svgOut != "" {
		if err := writeSVG(svgOut, cfg, sys.Particles()); err != nil {
			return err
		}
		fmt.Printf("frame written to %s\n", svgOut)
	}
	return err
}

// printRunErrors reports why a run stopped before its last frame.
func printRunErrors(w io.Writer, result *sim.Result) {
	if len(result.Errors) == 0 {
		return
	}
	fmt.Fprintf(w, "warning: run stopped after %d frames\n", result.FramesRun)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "error: %v\n", e)
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-22s %.6f\n", name, m[name])
	}
}

func writeSVG(path string, cfg *config.Config, ps []particles.Particle) error {
	t := viz.GetTheme(cfg.Render.Theme)
	svg := export.FrameToSVG(ps, viz.VisibleViewport(cfg.Domain), export.FrameOptions{
		Render:     cfg.Render,
		Background: string(t.Background),
		Radius:     1,
	})
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return err
	}

	// Each reset draws a fresh population.
	nextSeed := cfg.Population.Seed
	snapDir := filepath.Join(dataDir, "snapshots")
	m, err := viz.NewModel(cfg, viz.Options{
		Build: func() (*particles.System, error) {
			sys, err := exp.Build(nextSeed)
			nextSeed++
			return sys, err
		},
		Snapshot: func(ps []particles.Particle) (string, error) {
			path := filepath.Join(snapDir, fmt.Sprintf("frame_%d.svg", time.Now().UnixNano()))
			return path, writeSVG(path, cfg, ps)
		},
	})
	if err != nil {
		return err
	}

	// Logging to stderr would tear the alt screen.
	slog.SetDefault(slog.New(slog.DiscardHandler))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return err
	}
	sys, _, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	if err := writeSVG(args[0], cfg, sys.Particles()); err != nil {
		return err
	}
	fmt.Printf("frame written to %s\n", args[0])
	return nil
}

func inspectSystem(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return err
	}
	sys, result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	printRunErrors(os.Stdout, result)

	g := sys.Grid()
	cols, rows := g.Dims()
	occ := analysis.Occupancy(g)
	fmt.Printf("grid: %dx%d bins of edge %g\n", cols, rows, g.Edge())
	fmt.Printf("occupancy: mean %.2f  std %.2f  p95 %.0f  max %.0f  empty %.1f%%\n",
		occ.Mean, occ.StdDev, occ.P95, occ.Max, 100*occ.EmptyFraction())

	suggested := analysis.SuggestBinPower(cfg.Forces.Neighborhood)
	fmt.Printf("bin power: %d (suggested %d for radius %g)\n", g.BinPower(), suggested, cfg.Forces.Neighborhood)

	sp := analysis.Speeds(sys.Particles())
	fmt.Printf("speed: mean %.4f  std %.4f  median %.4f  max %.4f\n", sp.Mean, sp.StdDev, sp.Median, sp.Max)
	if sp.Dropped > 0 {
		fmt.Printf("  %d particles with non-finite speed left out\n", sp.Dropped)
	}

	dividers, counts, _ := analysis.SpeedHistogram(sys.Particles(), bins)
	for i, c := range counts {
		fmt.Printf("  [%8.4f, %8.4f)  %6.0f\n", dividers[i], dividers[i+1], c)
	}

	energy := make([]float64, len(result.Samples))
	for i, s := range result.Samples {
		energy[i] = s.KineticEnergy
	}
	if period := analysis.DominantPeriod(energy, cfg.Run.FrameDt); period > 0 {
		fmt.Printf("kinetic energy period: %.3fs\n", period)
	} else {
		fmt.Println("kinetic energy period: none")
	}
	return nil
}

func benchSystem(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return err
	}
	sys, err := exp.Build(cfg.Population.Seed)
	if err != nil {
		return err
	}

	// --frames is shared with other commands; read this one's own default.
	frames, _ := cmd.Flags().GetInt("frames")
	if frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}
	forces := cfg.Forces.Particles()
	var candidates, hits int
	var ratio float64
	start := time.Now()
	for i := 0; i < frames; i++ {
		st := sys.Step(forces, cfg.Run.FrameDt)
		candidates += st.Repulsion.Candidates
		hits += st.Repulsion.Hits
		ratio += analysis.CandidateRatio(st, sys.Len())
	}
	elapsed := time.Since(start)

	n := float64(frames)
	fmt.Printf("particles: %d  frames: %d\n", sys.Len(), frames)
	fmt.Printf("total: %v\n", elapsed)
	fmt.Printf("per frame: %v\n", elapsed/time.Duration(frames))
	fmt.Printf("candidates per frame: %.0f\n", float64(candidates)/n)
	fmt.Printf("hits per frame: %.0f\n", float64(hits)/n)
	if candidates > 0 {
		fmt.Printf("hit rate: %.1f%%\n", 100*float64(hits)/float64(candidates))
	}
	fmt.Printf("work vs brute force: %.2f%%\n", 100*ratio/n)
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return err
	}
	nextSeed := cfg.Population.Seed
	return gui.Run(cfg, gui.Options{
		Build: func() (*particles.System, error) {
			sys, err := exp.Build(nextSeed)
			nextSeed++
			return sys, err
		},
		ScreenshotDir: filepath.Join(dataDir, "screenshots"),
		Audio:         withAudio,
		Logger:        slog.Default(),
	})
}

// parseSearch turns "name=v1,v2" flags into parallel name and value lists.
func parseSearch(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("--param %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if len(searchSpec) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", experiment.ParamNames())
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Run.Frames, _ = cmd.Flags().GetInt("frames")

	names, ranges, err := parseSearch(searchSpec)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, err := g.Search(ctx, cfg, metricName)
	if err != nil {
		return err
	}
	fmt.Printf("tried %d combinations\n", best.Tried)
	fmt.Printf("best %s: %.6f\n", metricName, best.Value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best.Params[name])
	}
	return nil
}
