package pfield

import (
	"errors"
	"fmt"
	"strings"
)

// DiagonalMovement controls which diagonal neighbors a Grid reports.
type DiagonalMovement int

const (
	// Never allows cardinal moves only.
	Never DiagonalMovement = iota
	// IfAtMostOneObstacle allows a diagonal when at least one of the two
	// cardinal cells it cuts past is walkable.
	IfAtMostOneObstacle
	// OnlyWhenNoObstacles allows a diagonal only when both cardinal cells
	// it cuts past are walkable.
	OnlyWhenNoObstacles
	// Always allows any walkable diagonal.
	Always
)

// ErrUnknownDiagonalMovement is returned when parsing an unrecognised policy name.
var ErrUnknownDiagonalMovement = errors.New("unknown diagonal movement")

var diagonalNames = map[DiagonalMovement]string{
	Never:               "never",
	IfAtMostOneObstacle: "if-at-most-one-obstacle",
	OnlyWhenNoObstacles: "only-when-no-obstacles",
	Always:              "always",
}

func (dm DiagonalMovement) String() string {
	if name, ok := diagonalNames[dm]; ok {
		return name
	}
	return fmt.Sprintf("DiagonalMovement(%d)", int(dm))
}

// IsValid reports whether dm is one of the four named policies.
func (dm DiagonalMovement) IsValid() bool {
	_, ok := diagonalNames[dm]
	return ok
}

// ParseDiagonalMovement accepts the kebab-case names printed by String.
// Underscores and case are ignored.
func ParseDiagonalMovement(name string) (DiagonalMovement, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for dm, candidate := range diagonalNames {
		if candidate == normalized {
			return dm, nil
		}
	}
	return Never, fmt.Errorf("%w: %q", ErrUnknownDiagonalMovement, name)
}

// MarshalText implements encoding.TextMarshaler.
func (dm DiagonalMovement) MarshalText() ([]byte, error) {
	if !dm.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDiagonalMovement, int(dm))
	}
	return []byte(dm.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (dm *DiagonalMovement) UnmarshalText(text []byte) error {
	parsed, err := ParseDiagonalMovement(string(text))
	if err != nil {
		return err
	}
	*dm = parsed
	return nil
}
