package viz

import (
	"math"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
)

func TestAlphaFor(t *testing.T) {
	r := config.DefaultConfig().Render

	tests := []struct {
		name string
		p    particles.Particle
		want float64
	}{
		{"at rest", particles.NewParticle(0, 0, 0, 0), 5},
		{"half range", particles.NewParticle(0, 0, 6, 8), 80},
		{"full range", particles.NewParticle(0, 0, 0, 20), 155},
		{"beyond range", particles.NewParticle(0, 0, 100, 0), 155},
		{"nan", particles.NewParticle(0, 0, math.NaN(), 0), 5},
	}
	for _, tt := range tests {
		if got := AlphaFor(&tt.p, r); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestAlphaForForce(t *testing.T) {
	r := config.DefaultConfig().Render
	r.AlphaBy = "force"
	p := particles.NewParticle(0, 0, 50, 0)
	p.XF = 10

	if got := AlphaFor(&p, r); got != 80 {
		t.Errorf("expected alpha 80 from force, got %f", got)
	}
}

func TestViewport(t *testing.T) {
	v := VisibleViewport(config.DefaultConfig().Domain)
	if v != (Viewport{256, 256, 1024, 768}) {
		t.Fatalf("unexpected viewport %+v", v)
	}

	c := NewCanvas(64, 48)
	x, y := v.ToDots(c, 256, 256)
	if x != 0 || y != 0 {
		t.Errorf("expected origin at (0,0), got (%d,%d)", x, y)
	}
	x, y = v.ToDots(c, 256+512, 256+384)
	if x != 64 || y != 96 {
		t.Errorf("expected centre at (64,96), got (%d,%d)", x, y)
	}

	cx, cy := v.FromCell(c, 0, 0)
	if cx != 256+8 || cy != 256+8 {
		t.Errorf("expected first cell centre (264,264), got (%g,%g)", cx, cy)
	}
}

func TestDrawParticles(t *testing.T) {
	v := Viewport{0, 0, 100, 100}
	c := NewCanvas(50, 25)
	ps := []particles.Particle{
		particles.NewParticle(50, 50, 0, 0),
		particles.NewParticle(-10, 50, 0, 0),
	}
	r := config.DefaultConfig().Render

	DrawParticles(c, ps, v, r, false, 0)
	if !c.IsSet(50, 50) {
		t.Error("expected particle at centre")
	}

	c.Clear()
	DrawParticles(c, ps[:1], v, r, true, 10)
	if c.IsSet(50, 50) || !c.IsSet(60, 50) {
		t.Error("expected a ball of radius 10 dots")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != ThemeSketch.Name {
		t.Error("unknown theme should fall back to sketch")
	}
	th := ThemeSketch
	for range Themes {
		th = NextTheme(th)
	}
	if th.Name != ThemeSketch.Name {
		t.Errorf("cycling all themes should return to the start, got %s", th.Name)
	}
	if got := ThemeSketch.ParticleColor(config.RGB{R: 255, G: 250, B: 255}); got != lipgloss.Color("#fffaff") {
		t.Errorf("unexpected particle colour %s", got)
	}
	if got := ThemeEmber.ParticleColor(config.RGB{}); got != ThemeEmber.Particle {
		t.Errorf("themed particle colour ignored, got %s", got)
	}
}

func TestBlend(t *testing.T) {
	if got := blend("#000000", "#ffffff", 1); got != lipgloss.Color("#ffffff") {
		t.Errorf("expected full blend to reach the target, got %s", got)
	}
	if got := blend("#000000", "#ffffff", 0); got != lipgloss.Color("#000000") {
		t.Errorf("expected zero blend to keep the source, got %s", got)
	}
	if got := blend("bogus", "#123456", 0.5); got != "#123456" {
		t.Errorf("expected fallback to target, got %s", got)
	}
}
