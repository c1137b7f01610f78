package config

import "sort"

// Presets tweak the defaults. Each entry is applied to a fresh
// DefaultConfig so callers never share state.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"slowmo": func(c *Config) {
		c.Forces.TimeStep = DefaultSlowTimeStep
	},
	"dense": func(c *Config) {
		c.Population.Count = 8000
		c.Forces.Neighborhood = 24
		c.Forces.Repulsion = 0.3
	},
	"calm": func(c *Config) {
		c.Forces.Repulsion = 0.05
		c.Forces.CenterAttraction = 0.002
		c.Forces.Damping = 0.05
	},
	"drift": func(c *Config) {
		c.Population.MaxSpeed = 2
		c.Forces.CenterAttraction = 0
		c.Forces.Damping = 0
	},
	"clusters": func(c *Config) {
		c.Population.Layout = "noise"
		c.Forces.Neighborhood = 16
		c.Forces.Repulsion = 0.1
		c.Forces.CenterAttraction = 0.005
		c.Domain.BinPower = 4
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
