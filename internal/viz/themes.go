package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/binsim/internal/config"
)

// Theme colours the live view. An empty Particle colour means the
// configured render colour is used.
type Theme struct {
	Name       string
	Particle   lipgloss.Color
	Background lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Chart      lipgloss.Color
	Warning    lipgloss.Color
}

var (
	ThemeSketch = Theme{
		Name:       "sketch",
		Background: lipgloss.Color("#000000"),
		Accent:     lipgloss.Color("#ff5fd7"),
		Text:       lipgloss.Color("#eeeeee"),
		Muted:      lipgloss.Color("#6c6c6c"),
		Chart:      lipgloss.Color("#5fffd7"),
		Warning:    lipgloss.Color("#ffaf00"),
	}

	ThemeEmber = Theme{
		Name:       "ember",
		Particle:   lipgloss.Color("#ff8c42"),
		Background: lipgloss.Color("#1a0a05"),
		Accent:     lipgloss.Color("#ffd166"),
		Text:       lipgloss.Color("#fff3e6"),
		Muted:      lipgloss.Color("#8c5a3c"),
		Chart:      lipgloss.Color("#ff6b35"),
		Warning:    lipgloss.Color("#ef476f"),
	}

	ThemeIce = Theme{
		Name:       "ice",
		Particle:   lipgloss.Color("#a8dadc"),
		Background: lipgloss.Color("#0b132b"),
		Accent:     lipgloss.Color("#5bc0eb"),
		Text:       lipgloss.Color("#f1faee"),
		Muted:      lipgloss.Color("#457b9d"),
		Chart:      lipgloss.Color("#9bf6ff"),
		Warning:    lipgloss.Color("#ffca3a"),
	}

	ThemePhosphor = Theme{
		Name:       "phosphor",
		Particle:   lipgloss.Color("#33ff66"),
		Background: lipgloss.Color("#001100"),
		Accent:     lipgloss.Color("#99ff99"),
		Text:       lipgloss.Color("#33ff66"),
		Muted:      lipgloss.Color("#116622"),
		Chart:      lipgloss.Color("#66ff99"),
		Warning:    lipgloss.Color("#ffff33"),
	}

	Themes = []Theme{ThemeSketch, ThemeEmber, ThemeIce, ThemePhosphor}
)

// GetTheme returns a theme by name, falling back to the sketch theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSketch
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles through Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ParticleColor resolves the colour particles are drawn with.
func (t Theme) ParticleColor(rgb config.RGB) lipgloss.Color {
	if t.Particle != "" {
		return t.Particle
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B))
}

// blend mixes from towards to by f in [0, 1]. Unparseable colours yield to.
func blend(from, to lipgloss.Color, f float64) lipgloss.Color {
	a, err := colorful.Hex(string(from))
	if err != nil {
		return to
	}
	b, err := colorful.Hex(string(to))
	if err != nil {
		return to
	}
	return lipgloss.Color(a.BlendRgb(b, f).Clamped().Hex())
}
