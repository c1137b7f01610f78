// Package particles implements a binned 2D particle system.
//
// Space is partitioned into square bins of edge 2^binPower so repulsion
// only looks at nearby particles:
//
//   - [Particle]: point mass with position, velocity and force accumulator
//   - [Grid]: uniform bins over the padded domain, rebuilt every update
//   - [System]: owns the particles and the grid, runs the frame protocol
//
// # Frame protocol
//
// Every frame the caller runs, in order:
//
//	sys.SetupForces()
//	for i := 0; i < sys.Len(); i++ {
//	    sys.AddRepulsionForce(i, radius, strength)
//	    p := sys.At(i)
//	    p.BounceOffWalls(0, 0, sys.Width(), sys.Height())
//	    p.ApplyDampingForce(particles.DefaultDamping)
//	}
//	sys.AddAttractionForce(cx, cy, radius, strength)
//	sys.Update(elapsed)
//
// [System.Step] does exactly this from a [Forces] value.
//
// # Thread Safety
//
// A System is not safe for concurrent use. The grid is only written
// inside Update, so the accumulation phase reads it without locks.
package particles
