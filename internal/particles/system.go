package particles

import "math"

// MinDistance floors the separation used to normalise a force direction.
const MinDistance = 1e-6

// AttractionRadiusScale multiplies the domain width to get the radius of
// the central pull. A radius this large relative to the domain makes the
// pull close to constant everywhere.
const AttractionRadiusScale = 100

// Interaction counts the work done by one force query.
type Interaction struct {
	Candidates int // indices visited through the grid
	Hits       int // candidates inside the exact radius
}

func (i *Interaction) add(o Interaction) {
	i.Candidates += o.Candidates
	i.Hits += o.Hits
}

// System owns the particles and the grid over the padded domain.
type System struct {
	particles []Particle
	grid      *Grid
	timeStep  float64
}

// NewSystem creates an empty system over a width x height domain. The
// time step multiplier starts at 1.
func NewSystem(width, height float64, binPower int) (*System, error) {
	g, err := NewGrid(width, height, binPower)
	if err != nil {
		return nil, err
	}
	return &System{grid: g, timeStep: 1}, nil
}

// Add appends a particle and files it in the grid. The returned index is
// stable for the lifetime of the system.
func (s *System) Add(p Particle) int {
	idx := len(s.particles)
	s.particles = append(s.particles, p)
	s.grid.Insert(idx, p.X, p.Y)
	return idx
}

func (s *System) Len() int              { return len(s.particles) }
func (s *System) At(i int) *Particle    { return &s.particles[i] }
func (s *System) Grid() *Grid           { return s.grid }
func (s *System) Width() float64        { return s.grid.width }
func (s *System) Height() float64       { return s.grid.height }
func (s *System) TimeStep() float64     { return s.timeStep }
func (s *System) SetTimeStep(t float64) { s.timeStep = t }

// Particles exposes the backing slice for renderers. Callers must not
// append to it.
func (s *System) Particles() []Particle { return s.particles }

// SetupForces zeroes every force accumulator.
func (s *System) SetupForces() {
	for i := range s.particles {
		s.particles[i].ResetForce()
	}
}

// ForEachNeighbor calls visit for every particle strictly within radius
// of (x, y), with its distance.
func (s *System) ForEachNeighbor(x, y, radius float64, visit func(i int, dist float64)) {
	r2 := radius * radius
	s.grid.ForEachInRadius(x, y, radius, func(j int) {
		q := &s.particles[j]
		dx, dy := q.X-x, q.Y-y
		d2 := dx*dx + dy*dy
		if d2 < r2 {
			visit(j, math.Sqrt(d2))
		}
	})
}

// AddRepulsionForce pushes particle i away from every other particle
// within radius. The magnitude falls off linearly from strength at
// contact to zero at the radius. Only i's accumulator is written.
// Particles at exactly the same position exert no force on each other,
// so repulsion alone never separates them.
func (s *System) AddRepulsionForce(i int, radius, strength float64) Interaction {
	var n Interaction
	if !(radius > 0) || strength == 0 {
		return n
	}
	p := &s.particles[i]
	px, py := p.X, p.Y
	r2 := radius * radius
	var fx, fy float64
	s.grid.ForEachInRadius(px, py, radius, func(j int) {
		n.Candidates++
		if j == i {
			return
		}
		q := &s.particles[j]
		dx, dy := px-q.X, py-q.Y
		d2 := dx*dx + dy*dy
		// coincident particles have no direction to push along, and a
		// NaN distance must not spread to the source
		if !(d2 > 0 && d2 < r2) {
			return
		}
		n.Hits++
		d := math.Max(math.Sqrt(d2), MinDistance)
		effect := strength * (1 - d/radius)
		fx += dx / d * effect
		fy += dy / d * effect
	})
	p.XF += fx
	p.YF += fy
	return n
}

// AddRepulsionForceAt pushes every particle within radius of (x, y) away
// from that point.
func (s *System) AddRepulsionForceAt(x, y, radius, strength float64) Interaction {
	return s.addRadialForce(x, y, radius, strength)
}

// AddAttractionForce pulls every particle within radius of (x, y) toward
// that point with a linear falloff.
func (s *System) AddAttractionForce(x, y, radius, strength float64) Interaction {
	return s.addRadialForce(x, y, radius, -strength)
}

// addRadialForce applies scale*(1-d/radius) along the direction from the
// target to each particle in range. Negative scale attracts.
func (s *System) addRadialForce(x, y, radius, scale float64) Interaction {
	var n Interaction
	if !(radius > 0) || scale == 0 {
		return n
	}
	r2 := radius * radius
	s.grid.ForEachInRadius(x, y, radius, func(j int) {
		n.Candidates++
		q := &s.particles[j]
		dx, dy := q.X-x, q.Y-y
		d2 := dx*dx + dy*dy
		if !(d2 > 0 && d2 < r2) {
			return
		}
		n.Hits++
		d := math.Max(math.Sqrt(d2), MinDistance)
		effect := scale * (1 - d/radius)
		q.XF += dx / d * effect
		q.YF += dy / d * effect
	})
	return n
}

// Update integrates every particle over elapsed seconds scaled by the
// time step, then rebuilds the grid from the new positions. A negative or
// NaN elapsed time skips integration.
func (s *System) Update(elapsed float64) {
	if elapsed >= 0 {
		scale := elapsed * s.timeStep
		for i := range s.particles {
			s.particles[i].Integrate(scale)
		}
	}
	s.rebuild()
}

func (s *System) rebuild() {
	s.grid.Clear()
	for i := range s.particles {
		p := &s.particles[i]
		s.grid.Insert(i, p.X, p.Y)
	}
}
