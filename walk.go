package pfield

import (
	"container/heap"

	"github.com/pdrpinto/pfield/internal"
	"go.uber.org/zap"
)

type walkState int

const (
	walking walkState = iota
	succeeded
	failed
)

// walker is the greedy hill-climb over a built field. It never backtracks:
// once every neighbor of the current cell has been visited the walk fails.
type walker struct {
	grid             Grid
	field            *Field
	diagonalMovement DiagonalMovement
	logger           *zap.Logger

	goal    Point
	current Point
	visited *internal.Bitset
	path    Path
	queue   candidateQueue
	state   walkState
}

func newWalker(f *Finder, grid Grid, field *Field, start, goal Point) *walker {
	w := &walker{
		grid:             grid,
		field:            field,
		diagonalMovement: f.diagonalMovement,
		logger:           f.logger,
		goal:             goal,
		current:          start,
		visited:          internal.NewBitset(field.width * field.height),
		path:             Path{start},
	}
	w.visited.Set(w.index(start))
	if start == goal {
		w.state = succeeded
	}
	return w
}

func (w *walker) index(p Point) int { return internal.Index(p.X, p.Y, w.field.width) }

// step moves to the best unvisited neighbor of the current cell.
func (w *walker) step() {
	if w.state != walking {
		return
	}

	w.queue = w.queue[:0]
	for order, neighbor := range w.grid.Neighbors(w.current, w.diagonalMovement) {
		if w.visited.Has(w.index(neighbor)) {
			continue
		}
		heap.Push(&w.queue, &candidate{Cell: neighbor, Field: w.field.at(neighbor), Order: order})
	}

	if w.queue.Len() == 0 {
		w.state = failed
		w.logger.Debug("walk stuck",
			zap.Stringer("at", w.current),
			zap.Stringer("goal", w.goal),
			zap.Int("visited", len(w.path)),
		)
		return
	}

	best := heap.Pop(&w.queue).(*candidate)
	w.current = best.Cell
	w.visited.Set(w.index(best.Cell))
	w.path = append(w.path, best.Cell)
	if w.current == w.goal {
		w.state = succeeded
	}
}

// result is the walked path on success and an empty Path otherwise.
func (w *walker) result() Path {
	if w.state != succeeded {
		return Path{}
	}
	return append(Path(nil), w.path...)
}
