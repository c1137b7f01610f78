package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(8, 0)

	if !c.IsSet(0, 0) || !c.IsSet(7, 7) {
		t.Error("expected dots to be set")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected dot at (1,0)")
	}
	if c.Grid[0][0] != brailleBase|0x1 {
		t.Errorf("expected dot 1 in first cell, got %U", c.Grid[0][0])
	}
	if c.Grid[1][3] != brailleBase|0x80 {
		t.Errorf("expected dot 8 in last cell, got %U", c.Grid[1][3])
	}
}

func TestCanvasPlotLevel(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Plot(0, 0, 40)
	c.Plot(1, 1, 120)
	c.Plot(0, 2, 10)

	if c.Level[0][0] != 120 {
		t.Errorf("expected the brightest level to win, got %f", c.Level[0][0])
	}
	c.Clear()
	if c.Level[0][0] != 0 || c.Grid[0][0] != brailleBase {
		t.Error("clear should reset cells and levels")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if len([]rune(l)) != 3 {
			t.Errorf("expected 3 cells, got %q", l)
		}
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(20, 20, 6, 100)

	for _, p := range [][2]int{{26, 20}, {14, 20}, {20, 26}, {20, 14}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected (%d,%d) on the circle", p[0], p[1])
		}
	}
	if c.IsSet(20, 20) {
		t.Error("centre should stay empty")
	}

	c.Clear()
	c.DrawCircle(3, 3, 0, 100)
	if !c.IsSet(3, 3) {
		t.Error("zero radius should plot the centre")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(5, 2)
	c.Plot(0, 0, 255)
	c.Plot(9, 7, 20)

	out := c.Render(lipgloss.Color("#ffffff"), ThemeSketch)
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected 2 rows, got %q", out)
	}
	if !strings.ContainsRune(out, brailleBase|0x1) {
		t.Error("rendered canvas lost a dot")
	}
}

func TestShadeOf(t *testing.T) {
	tests := []struct {
		alpha float64
		want  int
	}{
		{0, 0},
		{-5, 0},
		{255, shades - 1},
		{1000, shades - 1},
		{128, 4},
	}
	for _, tt := range tests {
		if got := shadeOf(tt.alpha); got != tt.want {
			t.Errorf("shadeOf(%g) = %d, want %d", tt.alpha, got, tt.want)
		}
	}
}
