// Package gui is the windowed front end: the visible part of the domain
// drawn one pixel per unit, with the mouse pushing particles away.
package gui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/binsim/internal/audio"
	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/sim"
)

// Options wires the window to the rest of the program.
type Options struct {
	// Build returns a freshly populated system. Called at start and on reset.
	Build func() (*particles.System, error)
	// ScreenshotDir receives the PNGs saved with 'p'.
	ScreenshotDir string
	Audio         bool
	Logger        *slog.Logger
}

// input is one frame of keyboard and mouse state.
type input struct {
	pause, slow, balls, shot, reset, quit bool
	wider, narrower, sound              bool
	mouseDown                           bool
	mouseX, mouseY                      float64
}

type App struct {
	cfg    *config.Config
	opts   Options
	log    *slog.Logger
	sys    *particles.System
	forces particles.Forces

	normalTS   float64
	running    bool
	slowMotion bool
	balls      bool
	frame      int
	stats      particles.StepStats
	energy     float64
	status     string

	sound *audio.Sonifier
}

func NewApp(cfg *config.Config, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	a := &App{cfg: cfg, opts: opts, log: log, running: true}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, opts Options) error {
	a, err := NewApp(cfg, opts)
	if err != nil {
		return err
	}

	w, h := int32(cfg.Domain.Width), int32(cfg.Domain.Height)
	rl.InitWindow(w, h, "binsim")
	defer rl.CloseWindow()
	fps := cfg.Render.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)

	if opts.Audio {
		a.toggleSound()
	}
	defer a.stopSound()

	for !rl.WindowShouldClose() {
		in := pollInput()
		if in.quit {
			break
		}
		a.apply(in)
		if a.running {
			a.step(float64(rl.GetFrameTime()))
		}
		a.draw()
	}
	return nil
}

func pollInput() input {
	m := rl.GetMousePosition()
	return input{
		pause:     rl.IsKeyPressed(rl.KeySpace),
		slow:      rl.IsKeyPressed(rl.KeyS),
		balls:     rl.IsKeyPressed(rl.KeyB),
		shot:      rl.IsKeyPressed(rl.KeyP),
		reset:     rl.IsKeyPressed(rl.KeyR),
		quit:      rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape),
		wider:     rl.IsKeyPressed(rl.KeyUp),
		narrower:  rl.IsKeyPressed(rl.KeyDown),
		sound:     rl.IsKeyPressed(rl.KeyA),
		mouseDown: rl.IsMouseButtonDown(rl.MouseLeftButton),
		mouseX:    float64(m.X),
		mouseY:    float64(m.Y),
	}
}

// apply updates the tunables from one frame of input. Window coordinates
// are shifted by the padding into domain coordinates.
func (a *App) apply(in input) {
	if in.pause {
		a.running = !a.running
	}
	if in.slow {
		a.slowMotion = !a.slowMotion
		if a.slowMotion {
			a.normalTS = a.forces.TimeStep
			a.forces.TimeStep = a.cfg.Run.SlowTimeStep
		} else {
			a.forces.TimeStep = a.normalTS
		}
	}
	if in.balls {
		a.balls = !a.balls
	}
	if in.wider {
		a.forces.Neighborhood = min(a.forces.Neighborhood*1.1, 256)
	}
	if in.narrower {
		a.forces.Neighborhood = max(a.forces.Neighborhood/1.1, 1)
	}
	if in.reset {
		if err := a.reset(); err != nil {
			a.status = err.Error()
		}
	}
	if in.sound {
		a.toggleSound()
	}
	if in.shot {
		a.screenshot()
	}

	pad := a.cfg.Domain.Padding
	a.forces.Pointer.Active = in.mouseDown
	a.forces.Pointer.X = in.mouseX + pad
	a.forces.Pointer.Y = in.mouseY + pad
}

func (a *App) step(elapsed float64) {
	a.stats = a.sys.Step(a.forces, elapsed)
	a.frame++
	s := sim.Measure(a.sys, a.frame, 0, a.stats)
	a.energy = s.KineticEnergy
	if a.sound != nil {
		a.sound.Observe(s.KineticEnergy, float64(a.stats.Bounces)/float64(max(a.sys.Len(), 1)))
	}
}

func (a *App) reset() error {
	sys, err := a.opts.Build()
	if err != nil {
		return err
	}
	a.sys = sys
	a.forces = a.cfg.Forces.Particles()
	a.normalTS = a.forces.TimeStep
	a.slowMotion = false
	a.frame = 0
	a.stats = particles.StepStats{}
	a.energy = 0
	a.status = ""
	return nil
}

func (a *App) toggleSound() {
	if a.sound != nil {
		a.stopSound()
		a.status = "audio off"
		return
	}
	s := audio.NewSonifier()
	if err := s.Start(); err != nil {
		a.log.Warn("audio unavailable", "error", err)
		a.status = "audio unavailable"
		return
	}
	a.sound = s
	a.status = "audio on"
}

func (a *App) stopSound() {
	if a.sound != nil {
		a.sound.Stop()
		a.sound = nil
	}
}

func (a *App) screenshot() {
	dir := a.opts.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		a.status = err.Error()
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("frame_%d.png", time.Now().UnixNano()))
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)
	if !rl.ExportImage(*img, path) {
		a.status = "screenshot failed"
		return
	}
	a.log.Info("screenshot saved", "path", path)
	a.status = "saved " + path
}

// Forces returns the tunables that will be used for the next frame.
func (a *App) Forces() particles.Forces { return a.forces }

func (a *App) System() *particles.System { return a.sys }
