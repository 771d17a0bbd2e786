// Package scenario loads pathfinding queries from YAML documents.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/pfield"
	"github.com/pdrpinto/pfield/grid"
)

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// FinderConfig mirrors the finder options in YAML form.
type FinderConfig struct {
	Diagonal *pfield.DiagonalMovement `yaml:"diagonal"`
	// Deprecated: use Diagonal.
	AllowDiagonal bool `yaml:"allow_diagonal"`
	// Deprecated: use Diagonal.
	DontCrossCorners bool    `yaml:"dont_cross_corners"`
	Heuristic        string  `yaml:"heuristic" validate:"omitempty,oneof=manhattan octile euclidean chebyshev"`
	Weight           float64 `yaml:"weight" validate:"gte=0"`
	Workers          int     `yaml:"workers" validate:"gte=0"`
}

// Scenario is one query: a map, its endpoints and the finder settings.
type Scenario struct {
	Name   string        `yaml:"name"`
	Grid   []string      `yaml:"grid" validate:"required,min=1,dive,required"`
	Start  *pfield.Point `yaml:"start"`
	Goal   *pfield.Point `yaml:"goal"`
	Finder FinderConfig  `yaml:"finder"`

	grid *grid.Grid
}

var validate = validator.New()

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario document. Unknown keys are
// rejected. Start and goal default to the S and G markers of the map.
func Parse(data []byte) (*Scenario, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var s Scenario
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return &s, nil
}

// New builds a scenario from map rows. Nil endpoints fall back to the S
// and G markers.
func New(name string, rows []string, start, goal *pfield.Point) (*Scenario, error) {
	s := &Scenario{Name: name, Grid: rows, Start: start, Goal: goal}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) init() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	g, markers, err := grid.Parse(s.Grid)
	if err != nil {
		return fmt.Errorf("%w: grid: %v", ErrInvalidScenario, err)
	}
	s.grid = g

	if s.Start == nil && markers.HasStart {
		s.Start = &markers.Start
	}
	if s.Goal == nil && markers.HasGoal {
		s.Goal = &markers.Goal
	}
	if err := s.checkEndpoint("start", s.Start); err != nil {
		return err
	}
	return s.checkEndpoint("goal", s.Goal)
}

func (s *Scenario) checkEndpoint(name string, p *pfield.Point) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: %s is missing", ErrInvalidScenario, name)
	case !s.grid.IsInside(p.X, p.Y):
		return fmt.Errorf("%w: %s %s is outside the %dx%d grid", ErrInvalidScenario, name, p, s.grid.Width(), s.grid.Height())
	case !s.grid.IsWalkableAt(p.X, p.Y):
		return fmt.Errorf("%w: %s %s is blocked", ErrInvalidScenario, name, p)
	}
	return nil
}

// Map returns the parsed grid.
func (s *Scenario) Map() *grid.Grid { return s.grid }

// Options converts the finder section into finder options. An explicit
// diagonal policy wins over the legacy booleans.
func (s *Scenario) Options() ([]pfield.Option, error) {
	options := []pfield.Option{
		pfield.WithAllowDiagonal(s.Finder.AllowDiagonal),
		pfield.WithDontCrossCorners(s.Finder.DontCrossCorners),
		pfield.WithWeight(s.Finder.Weight),
	}
	if s.Finder.Diagonal != nil {
		options = append(options, pfield.WithDiagonalMovement(*s.Finder.Diagonal))
	}
	if s.Finder.Heuristic != "" {
		h, err := pfield.HeuristicByName(s.Finder.Heuristic)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
		options = append(options, pfield.WithHeuristic(h))
	}
	if s.Finder.Workers > 0 {
		options = append(options, pfield.WithWorkers(s.Finder.Workers))
	}
	return options, nil
}

// Run finds the scenario path with any extra options applied last.
func (s *Scenario) Run(extra ...pfield.Option) (pfield.Path, error) {
	options, err := s.Options()
	if err != nil {
		return nil, err
	}
	finder := pfield.NewFinder(append(options, extra...)...)
	return finder.FindPath(s.Start.X, s.Start.Y, s.Goal.X, s.Goal.Y, s.grid), nil
}
