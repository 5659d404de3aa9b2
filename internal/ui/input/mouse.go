package input

import "github.com/mitchelldurbincs/Evolve2048/internal/game/core"

// Swipe tracks a press-drag-release gesture.
type Swipe struct {
	MinDistance int

	startX, startY int
	active         bool
}

func (s *Swipe) Begin(x, y int) {
	s.startX, s.startY = x, y
	s.active = true
}

// End finishes the gesture and reports the dominant axis as a direction.
// Drags shorter than MinDistance on both axes are ignored.
func (s *Swipe) End(x, y int) (core.Direction, bool) {
	if !s.active {
		return 0, false
	}
	s.active = false
	return SwipeDirection(x-s.startX, y-s.startY, s.MinDistance)
}

// SwipeDirection maps a drag vector in screen coordinates (y grows downward)
// to a direction. Horizontal wins when both axes are equal.
func SwipeDirection(dx, dy, minDistance int) (core.Direction, bool) {
	ax, ay := abs(dx), abs(dy)
	if ax < minDistance && ay < minDistance {
		return 0, false
	}
	if ax == 0 && ay == 0 {
		return 0, false
	}
	if ax >= ay {
		if dx < 0 {
			return core.Left, true
		}
		return core.Right, true
	}
	if dy < 0 {
		return core.Up, true
	}
	return core.Down, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
