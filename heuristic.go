package pfield

import (
	"fmt"
	"math"
	"strings"
)

// Heuristic estimates the distance covered by an offset of dx, dy cells.
// Both arguments are non-negative.
type Heuristic func(dx, dy int) float64

// Manhattan is the cardinal-only distance |dx|+|dy|.
func Manhattan(dx, dy int) float64 {
	return float64(dx + dy)
}

// Octile counts diagonal steps as sqrt(2) and the remainder as straight steps.
func Octile(dx, dy int) float64 {
	f := math.Sqrt2 - 1
	if dx < dy {
		return f*float64(dx) + float64(dy)
	}
	return f*float64(dy) + float64(dx)
}

// Euclidean is the straight-line distance.
func Euclidean(dx, dy int) float64 {
	return math.Hypot(float64(dx), float64(dy))
}

// Chebyshev treats diagonal and straight steps as equal cost.
func Chebyshev(dx, dy int) float64 {
	return float64(max(dx, dy))
}

var heuristics = map[string]Heuristic{
	"manhattan": Manhattan,
	"octile":    Octile,
	"euclidean": Euclidean,
	"chebyshev": Chebyshev,
}

// HeuristicByName looks up one of the built-in heuristics.
func HeuristicByName(name string) (Heuristic, error) {
	h, ok := heuristics[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q", name)
	}
	return h, nil
}
