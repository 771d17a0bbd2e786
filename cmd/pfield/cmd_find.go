package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdrpinto/pfield"
	"github.com/pdrpinto/pfield/scenario"
)

var errNoInput = errors.New("need a scenario file argument or --map")

// queryFlags are shared by every command that runs a query.
type queryFlags struct {
	mapFile   string
	start     string
	goal      string
	diagonal  string
	heuristic string
	weight    float64
	workers   int
	format    string
}

var (
	findFlags  queryFlags
	fieldFlags queryFlags
)

// findCmd runs one query and prints the path
var findCmd = &cobra.Command{
	Use:   "find [scenario.yaml]",
	Short: "Find a path through a grid",
	Long: `Loads a YAML scenario (or a plain text map with --map) and prints the
greedy path from start to goal.

Map files use '#' for blocked cells and '.' for open cells; 'S' and 'G'
mark the start and goal unless --start and --goal are given.

Examples:
  pfield find maze.yaml
  pfield find --map maze.txt --diagonal always --format json
  pfield find --map maze.txt --start 0,0 --goal 9,4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFind,
}

// fieldCmd prints the potential field of a query
var fieldCmd = &cobra.Command{
	Use:   "field [scenario.yaml]",
	Short: "Print the potential field toward the goal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runField,
}

func init() {
	findFlags.register(findCmd)
	fieldFlags.register(fieldCmd)
}

func (q *queryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&q.mapFile, "map", "", "Plain text map file")
	flags.StringVar(&q.start, "start", "", "Start cell as x,y")
	flags.StringVar(&q.goal, "goal", "", "Goal cell as x,y")
	flags.StringVar(&q.diagonal, "diagonal", "", "Diagonal movement: never, if-at-most-one-obstacle, only-when-no-obstacles, always")
	flags.StringVar(&q.heuristic, "heuristic", "", "Heuristic: manhattan, octile, euclidean, chebyshev")
	flags.Float64Var(&q.weight, "weight", 1, "Heuristic weight")
	flags.IntVar(&q.workers, "workers", 1, "Goroutines used to build the field")
	flags.StringVar(&q.format, "format", "text", "Output format: text or json")
}

func runFind(cmd *cobra.Command, args []string) error {
	s, options, err := findFlags.load(cmd, args)
	if err != nil {
		return err
	}

	finder := pfield.NewFinder(options...)
	path := finder.FindPath(s.Start.X, s.Start.Y, s.Goal.X, s.Goal.Y, s.Map())
	logger.Info("query finished",
		zap.String("scenario", s.Name),
		zap.Stringer("start", *s.Start),
		zap.Stringer("goal", *s.Goal),
		zap.Stringer("diagonal", finder.DiagonalMovement()),
		zap.Bool("found", len(path) > 0),
		zap.Int("length", len(path)),
	)

	out := cmd.OutOrStdout()
	if findFlags.format == "json" {
		return writeJSON(out, map[string]any{
			"found":  len(path) > 0,
			"length": len(path),
			"path":   pointPairs(path),
		})
	}
	if len(path) == 0 {
		fmt.Fprintf(out, "no path from %s to %s\n", *s.Start, *s.Goal)
		return nil
	}
	fmt.Fprint(out, s.Map().Render(path))
	fmt.Fprintf(out, "path of %d cells from %s to %s\n", len(path), *s.Start, *s.Goal)
	return nil
}

func runField(cmd *cobra.Command, args []string) error {
	s, options, err := fieldFlags.load(cmd, args)
	if err != nil {
		return err
	}

	field, err := pfield.NewFinder(options...).BuildField(cmd.Context(), *s.Goal, s.Map())
	if err != nil {
		return fmt.Errorf("build field: %w", err)
	}

	out := cmd.OutOrStdout()
	if fieldFlags.format == "json" {
		return writeJSON(out, map[string]any{"goal": s.Goal, "field": field.Rows()})
	}
	for _, row := range field.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strconv.FormatFloat(v, 'f', 2, 64)
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}
	return nil
}

// load resolves the scenario and the finder options, with flags set on the
// command line taking precedence over the scenario file.
func (q *queryFlags) load(cmd *cobra.Command, args []string) (*scenario.Scenario, []pfield.Option, error) {
	if q.format != "text" && q.format != "json" {
		return nil, nil, fmt.Errorf("unknown format %q", q.format)
	}

	start, err := parseOptionalPoint(q.start)
	if err != nil {
		return nil, nil, fmt.Errorf("--start: %w", err)
	}
	goal, err := parseOptionalPoint(q.goal)
	if err != nil {
		return nil, nil, fmt.Errorf("--goal: %w", err)
	}

	var s *scenario.Scenario
	switch {
	case len(args) == 1:
		loaded, err := scenario.Load(args[0])
		if err != nil {
			return nil, nil, err
		}
		s = loaded
		if start != nil || goal != nil {
			start, goal = coalesce(start, s.Start), coalesce(goal, s.Goal)
			if s, err = scenario.New(loaded.Name, loaded.Grid, start, goal); err != nil {
				return nil, nil, err
			}
			s.Finder = loaded.Finder
		}
	case q.mapFile != "":
		rows, err := readMap(q.mapFile)
		if err != nil {
			return nil, nil, err
		}
		if s, err = scenario.New(q.mapFile, rows, start, goal); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, errNoInput
	}

	options, err := s.Options()
	if err != nil {
		return nil, nil, err
	}
	options = append(options, pfield.WithLogger(logger))

	flags := cmd.Flags()
	if flags.Changed("diagonal") {
		dm, err := pfield.ParseDiagonalMovement(q.diagonal)
		if err != nil {
			return nil, nil, err
		}
		options = append(options, pfield.WithDiagonalMovement(dm))
	}
	if flags.Changed("heuristic") {
		h, err := pfield.HeuristicByName(q.heuristic)
		if err != nil {
			return nil, nil, err
		}
		options = append(options, pfield.WithHeuristic(h))
	}
	if flags.Changed("weight") {
		options = append(options, pfield.WithWeight(q.weight))
	}
	if flags.Changed("workers") {
		options = append(options, pfield.WithWorkers(q.workers))
	}
	return s, options, nil
}

func readMap(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()

	var rows []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

func parseOptionalPoint(raw string) (*pfield.Point, error) {
	if raw == "" {
		return nil, nil
	}
	xs, ys, ok := strings.Cut(raw, ",")
	if !ok {
		return nil, fmt.Errorf("expected x,y, got %q", raw)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return nil, fmt.Errorf("bad x in %q: %w", raw, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return nil, fmt.Errorf("bad y in %q: %w", raw, err)
	}
	return &pfield.Point{X: x, Y: y}, nil
}

func coalesce(p, fallback *pfield.Point) *pfield.Point {
	if p != nil {
		return p
	}
	return fallback
}

func pointPairs(path pfield.Path) [][2]int {
	pairs := make([][2]int, 0, len(path))
	for _, p := range path {
		pairs = append(pairs, [2]int{p.X, p.Y})
	}
	return pairs
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
