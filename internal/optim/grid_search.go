// Package optim searches the tunable space for the setting that
// minimises a run metric.
package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/experiment"
)

// GridSearch tries every combination of the given parameter values.
// Parameter names are those accepted by experiment.SetParam.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	log        *slog.Logger
}

// Best is the winning combination and its metric value.
type Best struct {
	Params map[string]float64
	Value  float64
	Tried  int
}

func NewGridSearch(params []string, ranges [][]float64, logger *slog.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("param %s has no values", params[i])
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GridSearch{paramNames: params, ranges: ranges, log: logger}, nil
}

// Search runs base with every combination applied and returns the one
// with the smallest metricName. Combinations that fail to build or run
// are logged and skipped; an error is returned only when none succeed or
// ctx is done.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*Best, error) {
	best := &Best{Value: math.Inf(1)}
	err := g.searchRecursive(ctx, 0, map[string]float64{}, base, metricName, best)
	if err != nil {
		return nil, err
	}
	if best.Params == nil {
		return nil, fmt.Errorf("no combination produced %s", metricName)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, err := g.evaluate(ctx, current, base, metricName)
		best.Tried++
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.log.Warn("combination skipped", "params", current, "error", err)
			return nil
		}
		if val < best.Value {
			best.Value = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, base, metricName, best); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, base *config.Config, metricName string) (float64, error) {
	cfg := *base
	for k, v := range params {
		if err := experiment.SetParam(&cfg, k, v); err != nil {
			return 0, err
		}
	}
	exp, err := experiment.New(&cfg, g.log)
	if err != nil {
		return 0, err
	}
	_, result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	if len(result.Errors) > 0 {
		return 0, result.Errors[0]
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", metricName)
	}
	if math.IsNaN(val) {
		return 0, fmt.Errorf("%s is NaN", metricName)
	}
	return val, nil
}
