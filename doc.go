// Package pfield provides a potential-field pathfinder for 2D grids.
//
// A query runs in two phases:
//
//   - BuildField: score every cell by its heuristic distance to the goal
//     (negated) plus the number of neighbors it can reach.
//   - Walk: from the start, repeatedly step to the unvisited neighbor with
//     the highest score until the goal is reached.
//
// The walk never backtracks. When every neighbor of the current cell has
// already been visited the search fails and FindPath returns an empty Path,
// even if some other route to the goal exists. Paths are not shortest paths.
//
// Use FindPath to run a query to completion, or a Stepper to drive the walk
// one move at a time. Field values and visited flags are per-query scratch
// state; the Grid itself is read-only and can be shared between finders.
package pfield
