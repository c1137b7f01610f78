package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/viz"
)

var (
	colBg      = rl.NewColor(0, 0, 0, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
	colTextDim = rl.NewColor(60, 60, 60, 255)
	colPointer = rl.NewColor(255, 255, 255, 60)
)

// particleColor is the configured colour at the particle's alpha.
func particleColor(p *particles.Particle, r config.RenderConfig) rl.Color {
	a := viz.AlphaFor(p, r)
	return rl.NewColor(r.Color.R, r.Color.G, r.Color.B, uint8(max(0, min(255, a))))
}

func (a *App) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(colBg)

	pad := a.cfg.Domain.Padding
	w, h := a.cfg.Domain.Width, a.cfg.Domain.Height
	radius := float32(a.forces.Neighborhood * a.cfg.Render.BallScale)
	ps := a.sys.Particles()
	for i := range ps {
		p := &ps[i]
		x, y := p.X-pad, p.Y-pad
		if x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		c := particleColor(p, a.cfg.Render)
		if a.balls {
			rl.DrawCircleLines(int32(x), int32(y), radius, c)
		} else {
			rl.DrawPixel(int32(x), int32(y), c)
		}
	}

	if p := a.forces.Pointer; p.Active {
		rl.DrawCircleLines(int32(p.X-pad), int32(p.Y-pad), float32(p.Radius), colPointer)
	}

	a.drawHUD()
}

func (a *App) drawHUD() {
	for i, line := range a.hudLines(int(rl.GetFPS())) {
		rl.DrawText(line, 10, int32(10+i*16), 14, colText)
	}
	help := "space pause  s slow  b balls  p screenshot  r reset  up/down nbhd  a audio  q quit"
	rl.DrawText(help, 10, int32(a.cfg.Domain.Height)-22, 12, colTextDim)
}

func (a *App) hudLines(fps int) []string {
	state := "running"
	if !a.running {
		state = "paused"
	}
	if a.slowMotion {
		state += " / slow"
	}
	lines := []string{
		fmt.Sprintf("%d fps  %s", fps, state),
		fmt.Sprintf("particles %d  frame %d", a.sys.Len(), a.frame),
		fmt.Sprintf("time step %g  nbhd %.1f", a.forces.TimeStep, a.forces.Neighborhood),
		fmt.Sprintf("energy %.4f  hits %d", a.energy, a.stats.Repulsion.Hits),
	}
	if a.status != "" {
		lines = append(lines, a.status)
	}
	return lines
}
