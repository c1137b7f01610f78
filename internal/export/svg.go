package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/viz"
)

// FrameOptions controls how FrameToSVG draws particles.
type FrameOptions struct {
	Render     config.RenderConfig
	Background string
	// Radius of each particle in domain units. Zero draws single pixels.
	Radius float64
	// Balls draws outlines instead of filled dots.
	Balls bool
}

// FrameToSVG renders the particles inside v at one SVG unit per domain
// unit. Opacity follows the same alpha mapping as the live view.
func FrameToSVG(ps []particles.Particle, v viz.Viewport, opts FrameOptions) string {
	bg := opts.Background
	if bg == "" {
		bg = "#000000"
	}
	c := opts.Render.Color
	r := opts.Radius
	if r <= 0 {
		r = 0.5
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, v.W, v.H, v.W, v.H, bg))

	paint := fmt.Sprintf(`fill="rgb(%d,%d,%d)"`, c.R, c.G, c.B)
	if opts.Balls {
		paint = fmt.Sprintf(`fill="none" stroke="rgb(%d,%d,%d)" stroke-width="0.5"`, c.R, c.G, c.B)
	}
	sb.WriteString("<g " + paint + ">\n")

	for i := range ps {
		p := &ps[i]
		x, y := p.X-v.X, p.Y-v.Y
		if x < -r || y < -r || x > v.W+r || y > v.H+r {
			continue
		}
		alpha := viz.AlphaFor(p, opts.Render) / 255
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" opacity="%.3f"/>
`, x, y, r, alpha))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values as a line over equally spaced samples.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
