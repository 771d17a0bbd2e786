package pfield

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Point is a cell coordinate. Row 0 is the top of the grid.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Path is an ordered list of cells from start to goal. An empty Path means
// the search failed.
type Path []Point

// Grid is the topology the finder walks over.
//
// Neighbors must only return walkable, in-bounds cells, filtered by the
// diagonal movement rules, in a deterministic order. The finder keeps its
// own per-query state, so a Grid is never written to and can be reused
// across queries. When WithWorkers is greater than one, Neighbors is called
// from several goroutines at once.
type Grid interface {
	Width() int
	Height() int
	Neighbors(p Point, dm DiagonalMovement) []Point
}

// Options defines the finder configuration before resolution.
type Options struct {
	DiagonalMovement DiagonalMovement
	// Deprecated: use DiagonalMovement.
	AllowDiagonal bool
	// Deprecated: use DiagonalMovement.
	DontCrossCorners bool
	Heuristic        Heuristic
	Weight           float64
	NumberOfWorkers  int
	Logger           *zap.Logger

	explicitDiagonal bool
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithDiagonalMovement sets the policy explicitly. It takes precedence over
// WithAllowDiagonal and WithDontCrossCorners. Values outside the named
// policies fall back to Never.
func WithDiagonalMovement(dm DiagonalMovement) Option {
	return func(options *Options) {
		if !dm.IsValid() {
			dm = Never
		}
		options.DiagonalMovement = dm
		options.explicitDiagonal = true
	}
}

// WithAllowDiagonal is the legacy switch for diagonal movement.
//
// Deprecated: use WithDiagonalMovement.
func WithAllowDiagonal(allow bool) Option {
	return func(options *Options) { options.AllowDiagonal = allow }
}

// WithDontCrossCorners is the legacy switch forbidding diagonals that touch
// a blocked corner. It only matters when diagonals are allowed.
//
// Deprecated: use WithDiagonalMovement.
func WithDontCrossCorners(dontCross bool) Option {
	return func(options *Options) { options.DontCrossCorners = dontCross }
}

// WithHeuristic overrides the default heuristic regardless of policy.
func WithHeuristic(heuristic Heuristic) Option {
	return func(options *Options) { options.Heuristic = heuristic }
}

// WithWeight scales the heuristic term of the field. Non-positive values
// are ignored.
func WithWeight(weight float64) Option {
	return func(options *Options) {
		if weight > 0 {
			options.Weight = weight
		}
	}
}

// WithWorkers specifies how many goroutines fill the field in parallel.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// Finder builds a potential field toward the goal and walks it greedily.
// Its configuration is resolved once and never changes.
type Finder struct {
	diagonalMovement DiagonalMovement
	heuristic        Heuristic
	weight           float64
	workers          int
	logger           *zap.Logger
}

// NewFinder resolves options into a Finder.
func NewFinder(options ...Option) *Finder {
	finderOptions := Options{
		Weight:          1,
		NumberOfWorkers: 1,
	}
	for _, option := range options {
		option(&finderOptions)
	}

	finder := &Finder{
		diagonalMovement: resolveDiagonalMovement(finderOptions),
		heuristic:        finderOptions.Heuristic,
		weight:           finderOptions.Weight,
		workers:          max(finderOptions.NumberOfWorkers, 1),
		logger:           finderOptions.Logger,
	}
	if finder.logger == nil {
		finder.logger = zap.NewNop()
	}

	// Manhattan overestimates once diagonal steps exist.
	if finder.heuristic == nil {
		if finder.diagonalMovement == Never {
			finder.heuristic = Manhattan
		} else {
			finder.heuristic = Octile
		}
	}

	finder.logger.Debug("finder configured",
		zap.Stringer("diagonal", finder.diagonalMovement),
		zap.Float64("weight", finder.weight),
		zap.Int("workers", finder.workers),
	)
	return finder
}

func resolveDiagonalMovement(options Options) DiagonalMovement {
	switch {
	case options.explicitDiagonal:
		return options.DiagonalMovement
	case !options.AllowDiagonal:
		return Never
	case options.DontCrossCorners:
		return OnlyWhenNoObstacles
	default:
		return IfAtMostOneObstacle
	}
}

// DiagonalMovement returns the resolved policy.
func (f *Finder) DiagonalMovement() DiagonalMovement { return f.diagonalMovement }

// Weight returns the heuristic weight.
func (f *Finder) Weight() float64 { return f.weight }

// Heuristic returns the resolved heuristic.
func (f *Finder) Heuristic() Heuristic { return f.heuristic }

// FindPath returns the path from (startX, startY) to (endX, endY),
// both inclusive, or an empty Path when the walk gets stuck.
// Both coordinates must lie inside the grid.
func (f *Finder) FindPath(startX, startY, endX, endY int, grid Grid) Path {
	start := Point{X: startX, Y: startY}
	goal := Point{X: endX, Y: endY}

	field, err := f.BuildField(context.Background(), goal, grid)
	if err != nil {
		// Only cancellation fails a build and Background never cancels.
		return Path{}
	}

	w := newWalker(f, grid, field, start, goal)
	for w.state == walking {
		w.step()
	}
	return w.result()
}
