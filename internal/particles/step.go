package particles

// Pointer is an optional push away from a point, the mouse of the
// interactive view. Coordinates are domain coordinates.
type Pointer struct {
	X, Y     float64
	Radius   float64
	Strength float64
	Active   bool
}

// Forces holds every tunable of one frame. It is passed to Step each
// frame; the latest value wins.
type Forces struct {
	TimeStep         float64
	Neighborhood     float64
	Repulsion        float64
	CenterAttraction float64
	Damping          float64
	Pointer          Pointer
}

// DefaultForces returns the tunables of the original sketch.
func DefaultForces() Forces {
	return Forces{
		TimeStep:         100,
		Neighborhood:     32,
		Repulsion:        0.2,
		CenterAttraction: 0.01,
		Damping:          DefaultDamping,
		Pointer:          Pointer{Radius: 200, Strength: 1},
	}
}

// StepStats summarises the work done by one Step.
type StepStats struct {
	Repulsion  Interaction
	Attraction Interaction
	Pointer    Interaction
	Bounces    int
}

// Step runs one full frame: reset, per-particle repulsion, wall bounce and
// damping, the central pull, the optional pointer push, then Update.
func (s *System) Step(f Forces, elapsed float64) StepStats {
	var st StepStats
	s.SetTimeStep(f.TimeStep)
	s.SetupForces()

	w, h := s.Width(), s.Height()
	for i := range s.particles {
		st.Repulsion.add(s.AddRepulsionForce(i, f.Neighborhood, f.Repulsion))
		p := &s.particles[i]
		if p.BounceOffWalls(0, 0, w, h) {
			st.Bounces++
		}
		p.ApplyDampingForce(f.Damping)
	}

	st.Attraction = s.AddAttractionForce(w/2, h/2, w*AttractionRadiusScale, f.CenterAttraction)
	if f.Pointer.Active {
		st.Pointer = s.AddRepulsionForceAt(f.Pointer.X, f.Pointer.Y, f.Pointer.Radius, f.Pointer.Strength)
	}

	s.Update(elapsed)
	return st
}
