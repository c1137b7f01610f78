package particles

import "math"

// DefaultDamping is the drag coefficient used when none is configured.
const DefaultDamping = 0.01

// Particle is a unit point mass. Positions are in domain coordinates,
// padding included.
type Particle struct {
	X, Y   float64
	XV, YV float64
	XF, YF float64
}

func NewParticle(x, y, xv, yv float64) Particle {
	return Particle{X: x, Y: y, XV: xv, YV: yv}
}

func (p *Particle) ResetForce() {
	p.XF = 0
	p.YF = 0
}

// ApplyDampingForce adds a linear drag opposing the current velocity.
func (p *Particle) ApplyDampingForce(coefficient float64) {
	p.XF -= p.XV * coefficient
	p.YF -= p.YV * coefficient
}

// BounceOffWalls reverses the velocity component of any crossed wall and
// clamps the position onto it. It reports whether a wall was hit.
func (p *Particle) BounceOffWalls(minX, minY, maxX, maxY float64) bool {
	hit := false
	if p.X > maxX {
		p.X = maxX
		p.XV = -p.XV
		hit = true
	} else if p.X < minX {
		p.X = minX
		p.XV = -p.XV
		hit = true
	}
	if p.Y > maxY {
		p.Y = maxY
		p.YV = -p.YV
		hit = true
	} else if p.Y < minY {
		p.Y = minY
		p.YV = -p.YV
		hit = true
	}
	return hit
}

// Integrate folds the force into the velocity and the velocity into the
// position, both scaled by scale (elapsed time times the time step).
// f = ma with m = 1.
func (p *Particle) Integrate(scale float64) {
	p.XV += p.XF * scale
	p.YV += p.YF * scale
	p.X += p.XV * scale
	p.Y += p.YV * scale
}

func (p *Particle) Speed() float64 {
	return math.Hypot(p.XV, p.YV)
}

func (p *Particle) ForceMagnitude() float64 {
	return math.Hypot(p.XF, p.YF)
}

// IsValid reports whether every component is finite.
func (p *Particle) IsValid() bool {
	for _, v := range [...]float64{p.X, p.Y, p.XV, p.YV, p.XF, p.YF} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
