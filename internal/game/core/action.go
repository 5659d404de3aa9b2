package core

import (
	"fmt"
	"strings"
)

// Direction is one of the four slide actions. The numeric order doubles as
// the network output index and the planner's tie-break order.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// NumDirections is the size of the action set.
const NumDirections = 4

// AllDirections lists the actions in enumeration order.
var AllDirections = [NumDirections]Direction{Left, Right, Up, Down}

var directionNames = [NumDirections]string{"left", "right", "up", "down"}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

func (d Direction) Valid() bool { return d >= Left && d <= Down }

// DirectionFromIndex maps an output index to its direction.
func DirectionFromIndex(i int) (Direction, error) {
	d := Direction(i)
	if !d.Valid() {
		return 0, fmt.Errorf("index %d: %w", i, ErrInvalidDirection)
	}
	return d, nil
}

// ParseDirection parses a direction name such as "left" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrInvalidDirection)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
