package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/binsim/internal/automation"
	"github.com/san-kum/binsim/internal/storage"
)

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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tFRAMES\tLAYOUT\tERRORS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Frames,
			run.Layout,
			len(run.Errors),
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

	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data, err := storage.Column(records, column)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, storage.Columns())
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("frames: %d\n\n", len(records))

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(column+" vs frame"),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if len(args) == 2 {
		if err := st.ExportFile(args[1], args[0]); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", args[0], args[1])
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func runSweep(cmd *cobra.Command, args []string) error {
	sw, err := automation.LoadSweep(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, sw, slog.Default())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRUNS\t%s\n", sw.Param, metricName)
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.6f\n", r.Value, r.Runs, r.Metrics[metricName])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(automation.Series(results, metricName),
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", metricName, sw.Param)),
		))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, st, slog.Default())
	for i, r := range results {
		fmt.Printf("step %d: %d frames, kinetic energy %.6f\n", i+1, r.FramesRun, r.Last().KineticEnergy)
	}
	return err
}
