package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/experiment"
	"github.com/san-kum/binsim/internal/sim"
	"github.com/san-kum/binsim/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run, starting from a preset with overrides.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Frames int                `yaml:"frames"`
	Seed   int64              `yaml:"seed"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// Sweep varies one parameter over a range and runs Seeds independent
// systems for each value.
type Sweep struct {
	Name      string  `yaml:"name"`
	Preset    string  `yaml:"preset"`
	Param     string  `yaml:"param"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Steps     int     `yaml:"steps"`
	Seeds     int     `yaml:"seeds"`
	SeedStart int64   `yaml:"seed_start"`
	Frames    int     `yaml:"frames"`
}

// SweepResult holds the seed-averaged metrics for one parameter value.
type SweepResult struct {
	Value   float64
	Runs    int
	Metrics map[string]float64
}

func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func LoadScenario(path string) (*Scenario, error) {
	var sc Scenario
	if err := loadYAML(path, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func LoadSweep(path string) (*Sweep, error) {
	var sw Sweep
	if err := loadYAML(path, &sw); err != nil {
		return nil, err
	}
	return &sw, nil
}

func presetConfig(name string) (*config.Config, error) {
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

// RunScenario executes every step in order. Steps with SaveAs set are
// written to store under that id when store is non-nil.
func RunScenario(ctx context.Context, sc *Scenario, store *storage.Store, logger *slog.Logger) ([]*sim.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]*sim.Result, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		logger.Info("scenario step", "scenario", sc.Name, "step", i+1, "of", len(sc.Steps), "preset", step.Preset)

		cfg, err := presetConfig(step.Preset)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		for k, v := range step.Params {
			if err := experiment.SetParam(cfg, k, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if step.Frames > 0 {
			cfg.Run.Frames = step.Frames
		}
		cfg.Population.Seed = step.Seed

		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		sys, result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if step.SaveAs != "" && store != nil {
			meta := storage.RunMetadata{
				ID:        step.SaveAs,
				Preset:    step.Preset,
				Seed:      step.Seed,
				Particles: sys.Len(),
				FrameDt:   cfg.Run.FrameDt,
				Layout:    cfg.Population.Layout,
			}
			if _, err := store.Save(meta, cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
	}

	return results, nil
}

// Values returns the parameter values visited by the sweep.
func (sw *Sweep) Values() []float64 {
	if sw.Steps <= 1 {
		return []float64{sw.Min}
	}
	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	vals := make([]float64, sw.Steps)
	for i := range vals {
		vals[i] = sw.Min + float64(i)*step
	}
	return vals
}

// RunSweep executes the sweep, one ensemble per parameter value.
func RunSweep(ctx context.Context, sw *Sweep, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	seeds := sw.Seeds
	if seeds <= 0 {
		seeds = 1
	}

	vals := sw.Values()
	results := make([]SweepResult, 0, len(vals))
	for i, v := range vals {
		cfg, err := presetConfig(sw.Preset)
		if err != nil {
			return nil, err
		}
		if err := experiment.SetParam(cfg, sw.Param, v); err != nil {
			return nil, err
		}
		if sw.Frames > 0 {
			cfg.Run.Frames = sw.Frames
		}
		cfg.Population.Seed = sw.SeedStart

		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sw.Param, v, err)
		}
		runs, err := exp.RunEnsemble(ctx, seeds)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sw.Param, v, err)
		}

		results = append(results, SweepResult{Value: v, Runs: len(runs), Metrics: sim.MeanMetrics(runs)})
		logger.Info("sweep", "step", i+1, "of", len(vals), sw.Param, v)
	}

	return results, nil
}

// Series extracts one metric across sweep results, in sweep order.
func Series(results []SweepResult, metric string) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Metrics[metric]
	}
	return out
}
