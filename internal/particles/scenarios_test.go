package particles_test

import (
	"math"
	"math/rand"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/binsim/internal/particles"
)

const frameDt = 1.0 / 60

var _ = Describe("System", func() {
	Describe("two particles one bin apart", func() {
		var sys *particles.System

		BeforeEach(func() {
			var err error
			sys, err = particles.NewSystem(800, 600, 5)
			Expect(err).NotTo(HaveOccurred())
			sys.Add(particles.NewParticle(100, 100, 0, 0))
			sys.Add(particles.NewParticle(110, 100, 0, 0))
		})

		It("finds each particle from the other", func() {
			for i, other := range []int{1, 0} {
				p := sys.At(i)
				var seen []int
				sys.Grid().ForEachInRadius(p.X, p.Y, 32, func(j int) { seen = append(seen, j) })
				Expect(seen).To(ContainElement(other))
			}
		})

		It("pushes them apart along x only", func() {
			sys.SetupForces()
			sys.AddRepulsionForce(0, 32, 0.2)
			sys.AddRepulsionForce(1, 32, 0.2)

			a, b := sys.At(0), sys.At(1)
			Expect(a.XF).To(BeNumerically("<", 0))
			Expect(b.XF).To(BeNumerically(">", 0))
			Expect(a.XF).To(BeNumerically("~", -b.XF, 1e-12))
			Expect(a.YF).To(BeZero())
			Expect(b.YF).To(BeZero())
		})

		It("starts each frame from a zero accumulator", func() {
			sys.AddRepulsionForce(0, 32, 1)
			sys.SetupForces()
			for i := 0; i < sys.Len(); i++ {
				Expect(sys.At(i).XF).To(BeZero())
				Expect(sys.At(i).YF).To(BeZero())
			}
		})
	})

	Describe("a crowd with repulsion and attraction disabled", func() {
		const n = 3200
		const padding = 256.0

		var (
			sys    *particles.System
			forces particles.Forces
			start  []particles.Particle
		)

		BeforeEach(func() {
			var err error
			sys, err = particles.NewSystem(1024+2*padding, 768+2*padding, 5)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(1))
			for i := 0; i < n; i++ {
				x := rng.Float64()*1024 + padding
				y := rng.Float64()*768 + padding
				angle := rng.Float64() * 2 * math.Pi
				speed := 0.2 + rng.Float64()
				sys.Add(particles.NewParticle(x, y, speed*math.Cos(angle), speed*math.Sin(angle)))
			}
			start = append([]particles.Particle(nil), sys.Particles()...)

			forces = particles.DefaultForces()
			forces.Repulsion = 0
			forces.CenterAttraction = 0
		})

		It("follows the damping-only trajectory exactly", func() {
			st := sys.Step(forces, frameDt)
			Expect(st.Repulsion.Hits).To(BeZero())
			Expect(st.Attraction.Hits).To(BeZero())
			Expect(st.Bounces).To(BeZero())

			scale := frameDt * forces.TimeStep
			for i := 0; i < n; i++ {
				p0, p := start[i], sys.At(i)
				xf, yf := -(p0.XV * forces.Damping), -(p0.YV * forces.Damping)
				xv, yv := p0.XV+xf*scale, p0.YV+yf*scale

				Expect(p.XV).To(Equal(xv))
				Expect(p.YV).To(Equal(yv))
				Expect(p.X).To(Equal(p0.X + xv*scale))
				Expect(p.Y).To(Equal(p0.Y + yv*scale))
			}
		})

		It("decays speed without turning", func() {
			for frame := 0; frame < 10; frame++ {
				sys.Step(forces, frameDt)
			}
			for i := 0; i < n; i++ {
				p0, p := start[i], sys.At(i)
				Expect(p.Speed()).To(BeNumerically("<", p0.Speed()))
				cross := p0.XV*p.YV - p0.YV*p.XV
				Expect(cross).To(BeNumerically("~", 0, 1e-12))
				Expect(p0.XV*p.XV + p0.YV*p.YV).To(BeNumerically(">", 0))
			}
		})
	})

	Describe("grid bookkeeping across steps", func() {
		It("keeps every particle in exactly the bin of its position", func() {
			sys, err := particles.NewSystem(640, 480, 4)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(3))
			for i := 0; i < 800; i++ {
				sys.Add(particles.NewParticle(rng.Float64()*640, rng.Float64()*480, 0, 0))
			}

			forces := particles.DefaultForces()
			for frame := 0; frame < 30; frame++ {
				sys.Step(forces, frameDt)

				g := sys.Grid()
				Expect(g.Len()).To(Equal(sys.Len()))
				cols, rows := g.Dims()
				var all []int
				for row := 0; row < rows; row++ {
					for col := 0; col < cols; col++ {
						for _, idx := range g.Bin(col, row) {
							p := sys.At(idx)
							c, r := g.BinOf(p.X, p.Y)
							Expect([2]int{c, r}).To(Equal([2]int{col, row}))
							all = append(all, idx)
						}
					}
				}
				sort.Ints(all)
				for i := range all {
					Expect(all[i]).To(Equal(i))
				}
			}
		})

		It("agrees with a brute-force neighbour scan", func() {
			sys, err := particles.NewSystem(512, 512, 5)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(9))
			for i := 0; i < 600; i++ {
				sys.Add(particles.NewParticle(rng.Float64()*512, rng.Float64()*512, 0, 0))
			}

			const radius, strength = 32.0, 0.5
			sys.SetupForces()
			for i := 0; i < sys.Len(); i++ {
				sys.AddRepulsionForce(i, radius, strength)
			}

			ps := sys.Particles()
			for i := range ps {
				var fx, fy float64
				for j := range ps {
					dx, dy := ps[i].X-ps[j].X, ps[i].Y-ps[j].Y
					d := math.Hypot(dx, dy)
					if i == j || d == 0 || d >= radius {
						continue
					}
					e := strength * (1 - d/radius)
					fx += dx / d * e
					fy += dy / d * e
				}
				Expect(ps[i].XF).To(BeNumerically("~", fx, 1e-9))
				Expect(ps[i].YF).To(BeNumerically("~", fy, 1e-9))
			}
		})
	})
})
