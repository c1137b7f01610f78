package export

import (
	"strings"
	"testing"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/viz"
)

func TestFrameToSVG(t *testing.T) {
	ps := []particles.Particle{
		particles.NewParticle(300, 300, 0, 0),
		particles.NewParticle(400, 300, 0, 20),
		particles.NewParticle(10, 10, 0, 0), // in the padding
	}
	v := viz.Viewport{X: 256, Y: 256, W: 1024, H: 768}
	svg := FrameToSVG(ps, v, FrameOptions{Render: config.DefaultConfig().Render})

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 visible particles, got %d", n)
	}
	if !strings.Contains(svg, `cx="44.00" cy="44.00"`) {
		t.Error("expected first particle shifted by the padding")
	}
	if !strings.Contains(svg, `opacity="0.020"`) || !strings.Contains(svg, `opacity="0.608"`) {
		t.Error("expected opacity to follow the alpha mapping")
	}
	if !strings.Contains(svg, `fill="rgb(255,250,255)"`) {
		t.Error("expected configured colour")
	}
}

func TestFrameToSVGBalls(t *testing.T) {
	ps := []particles.Particle{particles.NewParticle(50, 50, 0, 0)}
	svg := FrameToSVG(ps, viz.Viewport{W: 100, H: 100}, FrameOptions{
		Render: config.DefaultConfig().Render,
		Radius: 9.6,
		Balls:  true,
	})
	if !strings.Contains(svg, `r="9.60"`) || !strings.Contains(svg, `fill="none"`) {
		t.Errorf("expected outlined balls, got %s", svg)
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{1, 3, 2, 5}, 300, 100, "#00ff00")
	if !strings.Contains(svg, `d="M0.0,`) {
		t.Error("path should start at x=0")
	}
	if strings.Count(svg, " L") != 3 {
		t.Errorf("expected 3 line segments, got %d", strings.Count(svg, " L"))
	}
	if SeriesToSVG([]float64{1}, 10, 10, "#fff") != "" {
		t.Error("expected empty output for a single sample")
	}
}
