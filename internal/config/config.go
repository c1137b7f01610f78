package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/binsim/internal/particles"
)

const (
	DefaultWidth        = 1024.0
	DefaultHeight       = 768.0
	DefaultPadding      = 256.0
	DefaultBinPower     = 5
	DefaultCount        = 3200
	DefaultFrames       = 600
	DefaultFrameDt      = 1.0 / 60
	DefaultSlowTimeStep = 10.0
	DefaultFPS          = 60
	DefaultMinAlpha     = 5
	DefaultMaxAlpha     = 155
	DefaultAlphaRange   = 20.0
	DefaultBallScale    = 0.3
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Domain     DomainConfig     `yaml:"domain"`
	Population PopulationConfig `yaml:"population"`
	Forces     ForcesConfig     `yaml:"forces"`
	Render     RenderConfig     `yaml:"render"`
	Run        RunConfig        `yaml:"run"`
}

// DomainConfig describes the visible area. The system itself extends
// Padding beyond it on every side.
type DomainConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Padding  float64 `yaml:"padding"`
	BinPower int     `yaml:"bin_power"`
}

type PopulationConfig struct {
	Count    int     `yaml:"count"`
	Layout   string  `yaml:"layout"`
	Seed     int64   `yaml:"seed"`
	MaxSpeed float64 `yaml:"max_speed"`
}

type ForcesConfig struct {
	TimeStep         float64 `yaml:"time_step"`
	Neighborhood     float64 `yaml:"neighborhood"`
	Repulsion        float64 `yaml:"repulsion"`
	CenterAttraction float64 `yaml:"center_attraction"`
	Damping          float64 `yaml:"damping"`
	PointerRadius    float64 `yaml:"pointer_radius"`
	PointerStrength  float64 `yaml:"pointer_strength"`
}

type RenderConfig struct {
	MinAlpha   float64 `yaml:"min_alpha"`
	MaxAlpha   float64 `yaml:"max_alpha"`
	AlphaRange float64 `yaml:"alpha_range"`
	AlphaBy    string  `yaml:"alpha_by"`
	Color      RGB     `yaml:"color"`
	BallScale  float64 `yaml:"ball_scale"`
	FPS        int     `yaml:"fps"`
	Theme      string  `yaml:"theme"`
}

type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

type RunConfig struct {
	Frames        int     `yaml:"frames"`
	FrameDt       float64 `yaml:"frame_dt"`
	SlowTimeStep  float64 `yaml:"slow_time_step"`
	ValidateState bool    `yaml:"validate_state"`
	LogEvery      int     `yaml:"log_every"`
}

func DefaultConfig() *Config {
	f := particles.DefaultForces()
	return &Config{
		Domain: DomainConfig{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			Padding:  DefaultPadding,
			BinPower: DefaultBinPower,
		},
		Population: PopulationConfig{
			Count:  DefaultCount,
			Layout: "uniform",
		},
		Forces: ForcesConfig{
			TimeStep:         f.TimeStep,
			Neighborhood:     f.Neighborhood,
			Repulsion:        f.Repulsion,
			CenterAttraction: f.CenterAttraction,
			Damping:          f.Damping,
			PointerRadius:    f.Pointer.Radius,
			PointerStrength:  f.Pointer.Strength,
		},
		Render: RenderConfig{
			MinAlpha:   DefaultMinAlpha,
			MaxAlpha:   DefaultMaxAlpha,
			AlphaRange: DefaultAlphaRange,
			AlphaBy:    "velocity",
			Color:      RGB{R: 255, G: 250, B: 255},
			BallScale:  DefaultBallScale,
			FPS:        DefaultFPS,
			Theme:      "default",
		},
		Run: RunConfig{
			Frames:        DefaultFrames,
			FrameDt:       DefaultFrameDt,
			SlowTimeStep:  DefaultSlowTimeStep,
			ValidateState: true,
			LogEvery:      100,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Size is the extent of the simulated domain, padding included.
func (d DomainConfig) Size() (w, h float64) {
	return d.Width + 2*d.Padding, d.Height + 2*d.Padding
}

// Visible returns the visible rectangle in domain coordinates.
func (d DomainConfig) Visible() (x, y, w, h float64) {
	return d.Padding, d.Padding, d.Width, d.Height
}

// Particles converts the tunables into the per-frame force set. The
// pointer starts inactive.
func (f ForcesConfig) Particles() particles.Forces {
	return particles.Forces{
		TimeStep:         f.TimeStep,
		Neighborhood:     f.Neighborhood,
		Repulsion:        f.Repulsion,
		CenterAttraction: f.CenterAttraction,
		Damping:          f.Damping,
		Pointer: particles.Pointer{
			Radius:   f.PointerRadius,
			Strength: f.PointerStrength,
		},
	}
}

// NewSystem builds an empty system sized for the domain.
func (c *Config) NewSystem() (*particles.System, error) {
	w, h := c.Domain.Size()
	return particles.NewSystem(w, h, c.Domain.BinPower)
}

func (c *Config) Validate() error {
	d := c.Domain
	switch {
	case !positive(d.Width) || !positive(d.Height):
		return fmt.Errorf("%w: domain %gx%g", ErrInvalidConfig, d.Width, d.Height)
	case d.Padding < 0 || math.IsInf(d.Padding, 0) || math.IsNaN(d.Padding):
		return fmt.Errorf("%w: padding %g", ErrInvalidConfig, d.Padding)
	case d.BinPower < 0 || d.BinPower > particles.MaxBinPower:
		return fmt.Errorf("%w: bin_power %d outside [0, %d]", ErrInvalidConfig, d.BinPower, particles.MaxBinPower)
	case c.Population.Count < 0:
		return fmt.Errorf("%w: count %d", ErrInvalidConfig, c.Population.Count)
	case c.Population.MaxSpeed < 0:
		return fmt.Errorf("%w: max_speed %g", ErrInvalidConfig, c.Population.MaxSpeed)
	case c.Forces.Neighborhood < 0 || c.Forces.PointerRadius < 0:
		return fmt.Errorf("%w: negative radius", ErrInvalidConfig)
	case c.Forces.Damping < 0:
		return fmt.Errorf("%w: damping %g", ErrInvalidConfig, c.Forces.Damping)
	case c.Render.MaxAlpha < c.Render.MinAlpha || c.Render.MinAlpha < 0 || c.Render.MaxAlpha > 255:
		return fmt.Errorf("%w: alpha range [%g, %g]", ErrInvalidConfig, c.Render.MinAlpha, c.Render.MaxAlpha)
	case !positive(c.Render.AlphaRange):
		return fmt.Errorf("%w: alpha_range %g", ErrInvalidConfig, c.Render.AlphaRange)
	case c.Render.AlphaBy != "velocity" && c.Render.AlphaBy != "force":
		return fmt.Errorf("%w: alpha_by %q", ErrInvalidConfig, c.Render.AlphaBy)
	case c.Run.Frames < 0 || c.Run.FrameDt < 0:
		return fmt.Errorf("%w: frames %d frame_dt %g", ErrInvalidConfig, c.Run.Frames, c.Run.FrameDt)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
