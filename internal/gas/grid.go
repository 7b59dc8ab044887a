package gas

import (
	"math"

	"github.com/san-kum/gaslab/internal/geom"
)

// Broad-phase constants. Cell size must exceed the largest particle
// diameter so every colliding pair shares a cell or sits in adjacent cells.
const (
	GridCellSize = 12.0
	GridMargin   = 24.0
)

// Grid is the uniform broad-phase partition. It covers the container's
// maximum possible bounds plus a margin, so a resize only changes which
// cells are populated, never the grid extent. Cell storage is reused
// across steps to avoid per-step allocation at populations in the
// thousands.
type Grid struct {
	origin      geom.Vec2
	cellSize    float64
	invCellSize float64
	cols, rows  int
	cells       [][]int // particle indices, truncated in place each rebuild
}

// NewGrid sizes the grid for the container's maximum bounds.
func NewGrid(c *Container) *Grid {
	bounds := c.MaxBounds().Expand(GridMargin)
	cols := int(math.Ceil(bounds.Width() / GridCellSize))
	rows := int(math.Ceil(bounds.Height() / GridCellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		origin:      bounds.Min,
		cellSize:    GridCellSize,
		invCellSize: 1.0 / GridCellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

func (g *Grid) cellIndex(p geom.Vec2) int {
	cx := int((p.X - g.origin.X) * g.invCellSize)
	cy := int((p.Y - g.origin.Y) * g.invCellSize)
	if cx < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.rows {
		cy = g.rows - 1
	}
	return cy*g.cols + cx
}

// Rebuild re-populates the grid from current particle positions. O(N).
func (g *Grid) Rebuild(particles []*Particle) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i, p := range particles {
		idx := g.cellIndex(p.Position)
		g.cells[idx] = append(g.cells[idx], i)
	}
}

// ForEachPair visits every unique candidate pair: both particles in the
// same cell, or in one of the four forward-neighbor cells (right,
// down-left, down, down-right). Each unordered pair is visited exactly
// once.
func (g *Grid) ForEachPair(fn func(i, j int)) {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row*g.cols+col]
			if len(cell) == 0 {
				continue
			}

			// Pairs inside the cell.
			for a := 0; a < len(cell); a++ {
				for b := a + 1; b < len(cell); b++ {
					fn(cell[a], cell[b])
				}
			}

			// Pairs spanning a cell boundary.
			for _, d := range [4][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}} {
				nc, nr := col+d[0], row+d[1]
				if nc < 0 || nc >= g.cols || nr >= g.rows {
					continue
				}
				neighbor := g.cells[nr*g.cols+nc]
				for _, a := range cell {
					for _, b := range neighbor {
						fn(a, b)
					}
				}
			}
		}
	}
}
