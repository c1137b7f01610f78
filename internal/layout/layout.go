// Package layout places the initial population of a particle system.
package layout

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/san-kum/binsim/internal/particles"
)

var ErrUnknownLayout = errors.New("unknown layout")

const (
	Uniform = "uniform"
	Lattice = "lattice"
	Noise   = "noise"
)

// NoiseScale converts domain units into noise space. Features come out
// roughly 1/NoiseScale units across.
const NoiseScale = 0.006

const maxRejections = 32

type Point struct{ X, Y float64 }

// Rect is the area particles are placed in, usually the visible area
// offset by the padding.
type Rect struct{ X, Y, W, H float64 }

func Kinds() []string { return []string{Lattice, Noise, Uniform} }

// Generate returns n points inside r laid out according to kind.
func Generate(kind string, n int, r Rect, rng *rand.Rand) ([]Point, error) {
	if n < 0 {
		return nil, fmt.Errorf("layout: negative count %d", n)
	}
	switch kind {
	case Uniform, "":
		return uniform(n, r, rng), nil
	case Lattice:
		return lattice(n, r, rng), nil
	case Noise:
		return noise(n, r, rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, kind)
	}
}

func uniform(n int, r Rect, rng *rand.Rand) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{r.X + rng.Float64()*r.W, r.Y + rng.Float64()*r.H}
	}
	return pts
}

// lattice fills rows of roughly square cells and jitters each point by a
// quarter of the spacing.
func lattice(n int, r Rect, rng *rand.Rand) []Point {
	if n == 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n) * r.W / r.H)))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	sx, sy := r.W/float64(cols), r.H/float64(rows)

	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		col, row := i%cols, i/cols
		jx := (rng.Float64() - 0.5) * sx * 0.5
		jy := (rng.Float64() - 0.5) * sy * 0.5
		pts = append(pts, Point{
			X: r.X + (float64(col)+0.5)*sx + jx,
			Y: r.Y + (float64(row)+0.5)*sy + jy,
		})
	}
	return pts
}

// noise keeps a uniform candidate with probability proportional to the
// perlin field at that point, so particles start in loose clumps.
func noise(n int, r Rect, rng *rand.Rand) []Point {
	field := perlin.NewPerlin(2, 2, 3, rng.Int63())
	pts := make([]Point, n)
	for i := range pts {
		var p Point
		for try := 0; try < maxRejections; try++ {
			p = Point{r.X + rng.Float64()*r.W, r.Y + rng.Float64()*r.H}
			w := (field.Noise2D(p.X*NoiseScale, p.Y*NoiseScale) + 1) / 2
			if rng.Float64() < w*w {
				break
			}
		}
		pts[i] = p
	}
	return pts
}

// Populate adds one particle per point. With maxSpeed > 0 each particle
// gets a random heading and a speed in [0, maxSpeed).
func Populate(sys *particles.System, pts []Point, maxSpeed float64, rng *rand.Rand) {
	for _, p := range pts {
		var xv, yv float64
		if maxSpeed > 0 {
			a := rng.Float64() * 2 * math.Pi
			s := rng.Float64() * maxSpeed
			xv, yv = s*math.Cos(a), s*math.Sin(a)
		}
		sys.Add(particles.NewParticle(p.X, p.Y, xv, yv))
	}
}
