package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a Braille dot canvas. Every cell also keeps the brightest
// alpha plotted into it so the view can shade dense and fast regions.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Level         [][]float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.Grid = make([][]rune, h)
	c.Level = make([][]float64, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Level[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) { c.Plot(x, y, 255) }

// Plot turns on a dot and raises the cell level to alpha.
func (c *Canvas) Plot(x, y int, alpha float64) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
	if alpha > c.Level[row][col] {
		c.Level[row][col] = alpha
	}
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Level[i][j] = 0
		}
	}
}

// DrawCircle outlines a circle with the midpoint algorithm.
func (c *Canvas) DrawCircle(cx, cy, r int, alpha float64) {
	if r <= 0 {
		c.Plot(cx, cy, alpha)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Plot(cx+p[0], cy+p[1], alpha)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// shades is the number of distinct brightness steps used by Render.
const shades = 8

// Render colours every cell by its level. Runs of cells with the same
// shade share one style call.
func (c *Canvas) Render(base lipgloss.Color, t Theme) string {
	styles := shadeStyles(base, t)
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && shadeOf(c.Level[i][j]) == shadeOf(c.Level[i][start]) {
				continue
			}
			b.WriteString(styles[shadeOf(c.Level[i][start])].Render(string(row[start:j])))
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func shadeOf(alpha float64) int {
	s := int(alpha / 256 * shades)
	if s < 0 {
		return 0
	}
	if s >= shades {
		return shades - 1
	}
	return s
}

func shadeStyles(base lipgloss.Color, t Theme) [shades]lipgloss.Style {
	var out [shades]lipgloss.Style
	for i := range out {
		out[i] = lipgloss.NewStyle().Foreground(blend(t.Background, base, float64(i+1)/shades))
	}
	return out
}
