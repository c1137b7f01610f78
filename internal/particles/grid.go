package particles

import "math"

const (
	// MaxBinPower bounds the bin edge at 65536 units.
	MaxBinPower = 16

	// MaxBins caps cols*rows. A bin power that would exceed it is
	// rejected rather than raised.
	MaxBins = 1 << 22
)

// Grid partitions a width x height domain into square bins of edge
// 2^binPower and stores particle indices per bin.
//
// Bins live in one flat slice addressed by row*cols+col. Each bin keeps
// its backing array across Clear, so a rebuild at steady state does not
// allocate.
type Grid struct {
	width, height float64
	binPower      int
	edge          float64
	cols, rows    int
	bins          [][]int
	count         int
}

// NewGrid validates the geometry and allocates the bins.
func NewGrid(width, height float64, binPower int) (*Grid, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, &ConfigError{Field: "width", Value: width, Wrapped: ErrInvalidDomain}
	}
	if !(height > 0) || math.IsInf(height, 0) {
		return nil, &ConfigError{Field: "height", Value: height, Wrapped: ErrInvalidDomain}
	}
	if binPower < 0 || binPower > MaxBinPower {
		return nil, &ConfigError{Field: "bin_power", Value: float64(binPower), Wrapped: ErrInvalidBinPower}
	}

	edge := math.Ldexp(1, binPower)
	cols := math.Ceil(width / edge)
	rows := math.Ceil(height / edge)
	if cols*rows > MaxBins {
		return nil, &ConfigError{Field: "bins", Value: cols * rows, Wrapped: ErrTooManyBins}
	}

	g := &Grid{
		width:    width,
		height:   height,
		binPower: binPower,
		edge:     edge,
		cols:     int(cols),
		rows:     int(rows),
	}
	g.bins = make([][]int, g.cols*g.rows)
	return g, nil
}

func (g *Grid) Dims() (cols, rows int) { return g.cols, g.rows }
func (g *Grid) Edge() float64         { return g.edge }
func (g *Grid) BinPower() int         { return g.binPower }
func (g *Grid) Width() float64        { return g.width }
func (g *Grid) Height() float64       { return g.height }

// Len returns the number of indices currently stored.
func (g *Grid) Len() int { return g.count }

// Clear empties every bin without touching the geometry.
func (g *Grid) Clear() {
	for i := range g.bins {
		g.bins[i] = g.bins[i][:0]
	}
	g.count = 0
}

// Insert files index under the bin containing (x, y). Positions outside
// the domain go to the nearest boundary bin.
func (g *Grid) Insert(index int, x, y float64) {
	col, row := g.BinOf(x, y)
	b := row*g.cols + col
	g.bins[b] = append(g.bins[b], index)
	g.count++
}

// BinOf returns the clamped bin coordinates of (x, y).
func (g *Grid) BinOf(x, y float64) (col, row int) {
	return clampBin(x/g.edge, g.cols), clampBin(y/g.edge, g.rows)
}

// Bin returns the indices stored in one bin. The slice is owned by the
// grid and is only valid until the next Clear.
func (g *Grid) Bin(col, row int) []int {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil
	}
	return g.bins[row*g.cols+col]
}

// ForEachInRadius calls visit for every index stored in a bin that
// overlaps the square [x-radius, x+radius] x [y-radius, y+radius].
//
// The result is a superset of the disc of the given radius: indices in
// the corners of the square are visited too and must be filtered with an
// exact distance check. Nothing inside the disc is ever missed. A radius
// that is not positive visits nothing.
func (g *Grid) ForEachInRadius(x, y, radius float64, visit func(index int)) {
	if !(radius > 0) {
		return
	}
	minCol, minRow := g.BinOf(x-radius, y-radius)
	maxCol, maxRow := g.BinOf(x+radius, y+radius)
	for row := minRow; row <= maxRow; row++ {
		base := row * g.cols
		for col := minCol; col <= maxCol; col++ {
			for _, idx := range g.bins[base+col] {
				visit(idx)
			}
		}
	}
}

// Occupancy writes the size of every bin into dst, reusing its storage,
// in row-major order.
func (g *Grid) Occupancy(dst []int) []int {
	dst = dst[:0]
	for _, b := range g.bins {
		dst = append(dst, len(b))
	}
	return dst
}

// MaxOccupancy returns the size of the fullest bin.
func (g *Grid) MaxOccupancy() int {
	m := 0
	for _, b := range g.bins {
		if len(b) > m {
			m = len(b)
		}
	}
	return m
}

func clampBin(v float64, n int) int {
	f := math.Floor(v)
	// NaN fails both comparisons and lands in bin 0.
	if !(f >= 0) {
		return 0
	}
	if f > float64(n-1) {
		return n - 1
	}
	return int(f)
}
