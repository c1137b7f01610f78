package viz

import (
	"math"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
)

// Viewport is the rectangle of the domain shown on screen.
type Viewport struct{ X, Y, W, H float64 }

// VisibleViewport shows the visible area and hides the padding.
func VisibleViewport(d config.DomainConfig) Viewport {
	x, y, w, h := d.Visible()
	return Viewport{X: x, Y: y, W: w, H: h}
}

// ToDots converts domain coordinates into canvas dot coordinates.
func (v Viewport) ToDots(c *Canvas, x, y float64) (int, int) {
	dw, dh := c.Dots()
	return int(math.Floor((x - v.X) / v.W * float64(dw))),
		int(math.Floor((y - v.Y) / v.H * float64(dh)))
}

// FromCell returns the domain coordinates of the centre of a text cell.
func (v Viewport) FromCell(c *Canvas, col, row int) (float64, float64) {
	return v.X + (float64(col)+0.5)/float64(c.Width)*v.W,
		v.Y + (float64(row)+0.5)/float64(c.Height)*v.H
}

// DrawParticles plots every particle inside the viewport. With balls set,
// each particle is drawn as a circle of radius ballRadius domain units.
func DrawParticles(c *Canvas, ps []particles.Particle, v Viewport, r config.RenderConfig, balls bool, ballRadius float64) {
	dw, _ := c.Dots()
	rd := int(math.Round(ballRadius / v.W * float64(dw)))
	for i := range ps {
		p := &ps[i]
		x, y := v.ToDots(c, p.X, p.Y)
		alpha := AlphaFor(p, r)
		if balls {
			c.DrawCircle(x, y, rd, alpha)
		} else {
			c.Plot(x, y, alpha)
		}
	}
}
