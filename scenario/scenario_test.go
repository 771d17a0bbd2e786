package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/pfield"
)

const corridor = `
name: corridor
grid:
  - "S...#G"
finder:
  diagonal: always
`

func TestParse_Markers(t *testing.T) {
	s, err := Parse([]byte(corridor))
	require.NoError(t, err)

	assert.Equal(t, "corridor", s.Name)
	assert.Equal(t, pfield.Point{X: 0, Y: 0}, *s.Start)
	assert.Equal(t, pfield.Point{X: 5, Y: 0}, *s.Goal)
	require.NotNil(t, s.Finder.Diagonal)
	assert.Equal(t, pfield.Always, *s.Finder.Diagonal)
	assert.Equal(t, 6, s.Map().Width())

	path, err := s.Run()
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestParse_ExplicitEndpoints(t *testing.T) {
	s, err := Parse([]byte(`
grid: ["S....", ".....", "....."]
start: {x: 4, y: 2}
goal: {x: 0, y: 0}
finder:
  allow_diagonal: true
  heuristic: chebyshev
  weight: 2
`))
	require.NoError(t, err)

	assert.Equal(t, pfield.Point{X: 4, Y: 2}, *s.Start)
	assert.Equal(t, pfield.Point{X: 0, Y: 0}, *s.Goal)

	options, err := s.Options()
	require.NoError(t, err)
	finder := pfield.NewFinder(options...)
	assert.Equal(t, pfield.IfAtMostOneObstacle, finder.DiagonalMovement())
	assert.Equal(t, 2.0, finder.Weight())
	assert.Equal(t, 4.0, finder.Heuristic()(4, 2))

	path, err := s.Run()
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, *s.Start, path[0])
	assert.Equal(t, *s.Goal, path[len(path)-1])
}

func TestOptions_ExplicitDiagonalWinsOverLegacy(t *testing.T) {
	s, err := Parse([]byte(`
grid: ["S.G"]
finder:
  diagonal: never
  allow_diagonal: true
  dont_cross_corners: true
`))
	require.NoError(t, err)

	options, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, pfield.Never, pfield.NewFinder(options...).DiagonalMovement())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no grid", "name: empty\n"},
		{"empty row", "grid: [\"\"]\n"},
		{"missing goal", "grid: [\"S..\"]\n"},
		{"start outside", "grid: [\"..G\"]\nstart: {x: 9, y: 0}\n"},
		{"goal blocked", "grid: [\"S.#\"]\ngoal: {x: 2, y: 0}\n"},
		{"bad heuristic", "grid: [\"S.G\"]\nfinder: {heuristic: teleport}\n"},
		{"negative weight", "grid: [\"S.G\"]\nfinder: {weight: -1}\n"},
		{"bad cell", "grid: [\"S?G\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidScenario)
		})
	}
}

func TestParse_DecodeErrors(t *testing.T) {
	_, err := Parse([]byte("grid: [\"S.G\"]\nspeed: 3\n"))
	assert.ErrorContains(t, err, "decode scenario")

	_, err = Parse([]byte("grid: [\"S.G\"]\nfinder: {diagonal: sideways}\n"))
	assert.ErrorIs(t, err, pfield.ErrUnknownDiagonalMovement)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corridor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(corridor), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "corridor", s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew(t *testing.T) {
	goal := pfield.Point{X: 2, Y: 1}
	s, err := New("inline", []string{"S..", "..."}, nil, &goal)
	require.NoError(t, err)
	assert.Equal(t, pfield.Point{}, *s.Start)
	assert.Equal(t, goal, *s.Goal)

	_, err = New("inline", nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidScenario)
}
