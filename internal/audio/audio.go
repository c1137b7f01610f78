// Package audio turns particle telemetry into an ambient pad: kinetic
// energy opens a low-pass filter and wall bounces add soft ticks.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// EnergyScale is the kinetic energy at which the filter is about two
	// thirds open.
	EnergyScale = 0.5

	minCutoff = 300.0
	maxCutoff = 1500.0
	volume    = 0.25
)

// G2, Bb2, D3, F3, A3.
var chord = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

type Sonifier struct {
	stream *portaudio.Stream

	mu      sync.Mutex
	energy  float64
	bounces float64

	// synthesis state, touched only by the audio callback
	t       float64
	level   float64
	tick    float64
	filter  [2]float64
	delay   [2][]float64
	delayAt int
}

func NewSonifier() *Sonifier {
	n := int(float64(SampleRate) * 0.6)
	return &Sonifier{delay: [2][]float64{make([]float64, n), make([]float64, n)}}
}

// Start opens the default output device. Output only: duplex streams
// often fail on Linux when input and output devices differ.
func (s *Sonifier) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	s.stream = stream
	return nil
}

func (s *Sonifier) Stop() {
	if s.stream == nil {
		return
	}
	s.stream.Stop()
	s.stream.Close()
	portaudio.Terminate()
	s.stream = nil
}

func (s *Sonifier) Active() bool { return s.stream != nil }

// Observe records the latest frame. bounces is the number of wall
// contacts in that frame per particle.
func (s *Sonifier) Observe(kineticEnergy, bounces float64) {
	if math.IsNaN(kineticEnergy) || math.IsInf(kineticEnergy, 0) {
		kineticEnergy = 0
	}
	s.mu.Lock()
	s.energy = kineticEnergy
	s.bounces = bounces
	s.mu.Unlock()
}

// Cutoff maps a kinetic energy onto the filter cutoff in Hz.
func Cutoff(energy float64) float64 {
	if !(energy > 0) {
		return minCutoff
	}
	open := 1 - math.Exp(-energy/EnergyScale)
	return minCutoff + open*(maxCutoff-minCutoff)
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4*math.Abs(p-0.5) - 1
}

// lpf is a one-pole low-pass filter step.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1 / (2 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a stereo output buffer. It is the portaudio callback.
func (s *Sonifier) Process(out [][]float32) {
	s.mu.Lock()
	energy, bounces := s.energy, s.bounces
	s.mu.Unlock()

	// slow morph so a jump in energy does not click
	s.level = 0.995*s.level + 0.005*energy
	cutoff := Cutoff(s.level)
	s.tick = math.Max(s.tick, math.Min(bounces*4, 1))
	dt := 1.0 / SampleRate
	g := 1 / float64(len(chord))

	for i := range out[0] {
		var l, r float64
		for j, f := range chord {
			breath := 0.7 + 0.3*math.Sin(s.t*0.2+float64(j))
			l += triangle(s.t*f*0.999) * g * breath
			r += triangle(s.t*f*1.001) * g * breath
		}
		if s.tick > 0 {
			click := s.tick * math.Sin(2*math.Pi*880*s.t)
			l += 0.2 * click
			r += 0.2 * click
			s.tick *= 0.9995
			if s.tick < 1e-3 {
				s.tick = 0
			}
		}

		s.filter[0] = lpf(l, cutoff, dt, s.filter[0])
		s.filter[1] = lpf(r, cutoff, dt, s.filter[1])

		dl, dr := s.delay[0][s.delayAt], s.delay[1][s.delayAt]
		mixL := s.filter[0] + dl*0.3 + dr*0.1
		mixR := s.filter[1] + dr*0.3 + dl*0.1
		s.delay[0][s.delayAt] = mixL * 0.7
		s.delay[1][s.delayAt] = mixR * 0.7
		s.delayAt = (s.delayAt + 1) % len(s.delay[0])

		out[0][i] = float32(mixL * volume)
		if len(out) > 1 {
			out[1][i] = float32(mixR * volume)
		}
		s.t += dt
	}
}
