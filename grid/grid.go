// Package grid is a rectangular walkable/blocked grid usable as a pfield.Grid.
package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdrpinto/pfield"
	"github.com/pdrpinto/pfield/internal"
)

var (
	ErrRaggedRows      = errors.New("rows have different lengths")
	ErrUnknownCell     = errors.New("unknown cell character")
	ErrDuplicateMarker = errors.New("marker appears more than once")
)

// Cell characters understood by Parse and produced by String.
const (
	Blocked  = '#'
	Open     = '.'
	Start    = 'S'
	Goal     = 'G'
	PathMark = '*'
)

// Grid stores blocked cells in a flat row-major slice.
// It is safe for concurrent reads.
type Grid struct {
	width   int
	height  int
	blocked []bool
}

var _ pfield.Grid = (*Grid)(nil)

// New returns a width x height grid with every cell walkable.
func New(width, height int) *Grid {
	width, height = max(width, 0), max(height, 0)
	return &Grid{
		width:   width,
		height:  height,
		blocked: make([]bool, width*height),
	}
}

// FromMatrix builds a grid where any non-zero entry is blocked. The width
// is taken from the first row.
func FromMatrix(matrix [][]int) (*Grid, error) {
	if len(matrix) == 0 {
		return New(0, 0), nil
	}
	g := New(len(matrix[0]), len(matrix))
	for y, row := range matrix {
		if len(row) != g.width {
			return nil, fmt.Errorf("row %d: %w", y, ErrRaggedRows)
		}
		for x, value := range row {
			g.blocked[internal.Index(x, y, g.width)] = value != 0
		}
	}
	return g, nil
}

// Markers are the S and G cells found by Parse.
type Markers struct {
	Start    pfield.Point
	HasStart bool
	Goal     pfield.Point
	HasGoal  bool
}

// Parse reads a text map, one string per row. '#' is blocked; '.', ' ',
// 'S' and 'G' are walkable. S and G may appear at most once each.
func Parse(rows []string) (*Grid, Markers, error) {
	var markers Markers
	if len(rows) == 0 {
		return New(0, 0), markers, nil
	}

	g := New(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.width {
			return nil, markers, fmt.Errorf("row %d: %w", y, ErrRaggedRows)
		}
		for x, ch := range []byte(row) {
			p := pfield.Point{X: x, Y: y}
			switch ch {
			case Blocked:
				g.blocked[internal.Index(x, y, g.width)] = true
			case Open, ' ':
			case Start:
				if markers.HasStart {
					return nil, markers, fmt.Errorf("%w: %q at %s", ErrDuplicateMarker, ch, p)
				}
				markers.Start, markers.HasStart = p, true
			case Goal:
				if markers.HasGoal {
					return nil, markers, fmt.Errorf("%w: %q at %s", ErrDuplicateMarker, ch, p)
				}
				markers.Goal, markers.HasGoal = p, true
			default:
				return nil, markers, fmt.Errorf("%w: %q at %s", ErrUnknownCell, ch, p)
			}
		}
	}
	return g, markers, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// IsInside reports whether (x, y) lies on the grid.
func (g *Grid) IsInside(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsWalkableAt reports whether (x, y) is on the grid and not blocked.
func (g *Grid) IsWalkableAt(x, y int) bool {
	return g.IsInside(x, y) && !g.blocked[internal.Index(x, y, g.width)]
}

// SetWalkableAt marks (x, y) walkable or blocked. Out-of-range coordinates
// are ignored.
func (g *Grid) SetWalkableAt(x, y int, walkable bool) {
	if g.IsInside(x, y) {
		g.blocked[internal.Index(x, y, g.width)] = !walkable
	}
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:   g.width,
		height:  g.height,
		blocked: append([]bool(nil), g.blocked...),
	}
}

// String renders the grid with '#' and '.'.
func (g *Grid) String() string {
	return g.Render(nil)
}

// Render draws path over the grid. The first cell is drawn as 'S', the
// last as 'G' and the rest as '*'.
func (g *Grid) Render(path pfield.Path) string {
	cells := make([]byte, len(g.blocked))
	for i, blocked := range g.blocked {
		cells[i] = Open
		if blocked {
			cells[i] = Blocked
		}
	}
	for i, p := range path {
		if !g.IsInside(p.X, p.Y) {
			continue
		}
		mark := byte(PathMark)
		switch i {
		case 0:
			mark = Start
		case len(path) - 1:
			mark = Goal
		}
		cells[internal.Index(p.X, p.Y, g.width)] = mark
	}

	var b strings.Builder
	for y := 0; y < g.height; y++ {
		b.Write(cells[y*g.width : (y+1)*g.width])
		b.WriteByte('\n')
	}
	return b.String()
}
