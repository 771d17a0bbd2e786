package pfield

import "context"

// StepSnapshot exposes the walker state after one move.
type StepSnapshot struct {
	Current Point
	// Visited lists the walked cells in order, including the start.
	Visited   []Point
	Done      bool
	Found     bool
	Path      Path
	StepIndex int
}

// Stepper walks the field one move per Step call, for UIs and debugging.
// It follows exactly the same transitions as FindPath.
type Stepper struct {
	finder *Finder
	field  *Field
	walker *walker

	stepCount int
}

// NewStepper builds the field for goal and positions the walker at start.
func NewStepper(
	ctx context.Context,
	grid Grid,
	start Point,
	goal Point,
	options ...Option,
) (*Stepper, error) {
	finder := NewFinder(options...)
	field, err := finder.BuildField(ctx, goal, grid)
	if err != nil {
		return nil, err
	}
	return &Stepper{
		finder: finder,
		field:  field,
		walker: newWalker(finder, grid, field, start, goal),
	}, nil
}

// Finder returns the resolved finder configuration.
func (s *Stepper) Finder() *Finder { return s.finder }

// Field returns the potential field the walker climbs.
func (s *Stepper) Field() *Field { return s.field }

// Done reports whether the walk has reached a terminal state.
func (s *Stepper) Done() bool { return s.walker.state != walking }

// Step advances the walk by one move and returns a snapshot. Once the walk
// is done further calls return the final snapshot without moving.
func (s *Stepper) Step() StepSnapshot {
	if !s.Done() {
		s.stepCount++
		s.walker.step()
	}
	return s.snapshot()
}

func (s *Stepper) snapshot() StepSnapshot {
	snapshot := StepSnapshot{
		Current:   s.walker.current,
		Visited:   append([]Point(nil), s.walker.path...),
		Done:      s.Done(),
		Found:     s.walker.state == succeeded,
		StepIndex: s.stepCount,
	}
	if snapshot.Done {
		snapshot.Path = s.walker.result()
	}
	return snapshot
}
