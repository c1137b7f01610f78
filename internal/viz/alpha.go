package viz

import (
	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
)

// AlphaFor maps the particle's speed, or its force magnitude when
// r.AlphaBy is "force", linearly from [0, r.AlphaRange] onto
// [r.MinAlpha, r.MaxAlpha], clamped at both ends.
func AlphaFor(p *particles.Particle, r config.RenderConfig) float64 {
	v := p.Speed()
	if r.AlphaBy == "force" {
		v = p.ForceMagnitude()
	}
	if !(r.AlphaRange > 0) {
		return r.MaxAlpha
	}
	f := v / r.AlphaRange
	switch {
	case !(f > 0):
		return r.MinAlpha
	case f >= 1:
		return r.MaxAlpha
	}
	return r.MinAlpha + f*(r.MaxAlpha-r.MinAlpha)
}
