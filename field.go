package pfield

import (
	"context"

	"github.com/pdrpinto/pfield/internal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Field holds one potential value per grid cell for a single query.
// Higher is better: cells closer to the goal and with more open
// neighbors score higher.
type Field struct {
	width  int
	height int
	values []float64
}

func newField(width, height int) *Field {
	if width <= 0 || height <= 0 {
		return &Field{}
	}
	return &Field{
		width:  width,
		height: height,
		values: make([]float64, width*height),
	}
}

// Width of the field in cells.
func (f *Field) Width() int { return f.width }

// Height of the field in cells.
func (f *Field) Height() int { return f.height }

// At returns the potential of cell (x, y).
func (f *Field) At(x, y int) float64 {
	return f.values[internal.Index(x, y, f.width)]
}

func (f *Field) at(p Point) float64 { return f.At(p.X, p.Y) }

// Rows copies the field into a row-major matrix.
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.height)
	for y := range rows {
		rows[y] = append([]float64(nil), f.values[y*f.width:(y+1)*f.width]...)
	}
	return rows
}

// BuildField scores every cell of grid against goal:
//
//	field(x, y) = -weight * heuristic(|goal.X-x|, |goal.Y-y|) + len(neighbors(x, y))
//
// Each cell depends only on the grid geometry, so rows are independent and
// may be filled concurrently. An error is only returned if ctx is done.
func (f *Finder) BuildField(ctx context.Context, goal Point, grid Grid) (*Field, error) {
	field := newField(grid.Width(), grid.Height())
	if len(field.values) == 0 {
		return field, nil
	}

	if f.workers <= 1 || field.height == 1 {
		for y := 0; y < field.height; y++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			f.scoreRow(field, grid, fieldRowTask{Row: y, Goal: goal})
		}
	} else if err := f.buildFieldParallel(ctx, field, goal, grid); err != nil {
		return nil, err
	}

	f.logger.Debug("field built",
		zap.Stringer("goal", goal),
		zap.Int("width", field.width),
		zap.Int("height", field.height),
	)
	return field, nil
}

func (f *Finder) buildFieldParallel(ctx context.Context, field *Field, goal Point, grid Grid) error {
	group, groupCtx := errgroup.WithContext(ctx)
	tasks := make(chan fieldRowTask)

	group.Go(func() error {
		defer close(tasks)
		for y := 0; y < field.height; y++ {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case tasks <- fieldRowTask{Row: y, Goal: goal}:
			}
		}
		return nil
	})

	for i := 0; i < f.workers; i++ {
		group.Go(func() error {
			for task := range tasks {
				f.scoreRow(field, grid, task)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (f *Finder) scoreRow(field *Field, grid Grid, task fieldRowTask) {
	dy := internal.Abs(task.Goal.Y - task.Row)
	for x := 0; x < field.width; x++ {
		cell := Point{X: x, Y: task.Row}
		dx := internal.Abs(task.Goal.X - x)
		potential := -f.weight * f.heuristic(dx, dy)
		potential += float64(len(grid.Neighbors(cell, f.diagonalMovement)))
		field.values[internal.Index(x, task.Row, field.width)] = potential
	}
}
