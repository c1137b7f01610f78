package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/binsim/internal/config"
)

// params maps sweepable names onto config fields.
var params = map[string]func(*config.Config, float64){
	"time_step":         func(c *config.Config, v float64) { c.Forces.TimeStep = v },
	"neighborhood":      func(c *config.Config, v float64) { c.Forces.Neighborhood = v },
	"repulsion":         func(c *config.Config, v float64) { c.Forces.Repulsion = v },
	"center_attraction": func(c *config.Config, v float64) { c.Forces.CenterAttraction = v },
	"damping":           func(c *config.Config, v float64) { c.Forces.Damping = v },
	"pointer_radius":    func(c *config.Config, v float64) { c.Forces.PointerRadius = v },
	"count":             func(c *config.Config, v float64) { c.Population.Count = int(v) },
	"max_speed":         func(c *config.Config, v float64) { c.Population.MaxSpeed = v },
	"bin_power":         func(c *config.Config, v float64) { c.Domain.BinPower = int(v) },
	"padding":           func(c *config.Config, v float64) { c.Domain.Padding = v },
}

func SetParam(cfg *config.Config, name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	set(cfg, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
