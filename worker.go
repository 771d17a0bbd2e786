package pfield

// fieldRowTask asks a field worker to score one row against the goal.
type fieldRowTask struct {
	Row  int
	Goal Point
}
