package grid

import "strings"

// Direction is one of the six axis-aligned unit steps.
type Direction uint8

const (
	Down Direction = iota
	Up
	North
	South
	West
	East
)

// All lists every direction in index order.
var All = [6]Direction{Down, Up, North, South, West, East}

// Horizontal is the N/E/S/W plane, in the order random picks index into.
var Horizontal = [4]Direction{North, East, South, West}

// Neighbour scans that must skip exactly one face.
var (
	NotUp    = [5]Direction{Down, North, South, East, West}
	NotDown  = [5]Direction{Up, North, South, East, West}
	NotNorth = [5]Direction{Up, Down, South, East, West}
	NotSouth = [5]Direction{Up, Down, North, East, West}
	NotEast  = [5]Direction{Up, Down, North, South, West}
	NotWest  = [5]Direction{Up, Down, North, South, East}
)

var offsets = [6]Pos{
	Down:  {0, -1, 0},
	Up:    {0, 1, 0},
	North: {0, 0, -1},
	South: {0, 0, 1},
	West:  {-1, 0, 0},
	East:  {1, 0, 0},
}

var names = [6]string{"down", "up", "north", "south", "west", "east"}

func (d Direction) Offset() Pos { return offsets[d] }

func (d Direction) Opposite() Direction {
	// Pairs sit next to each other in index order.
	return d ^ 1
}

func (d Direction) Horizontal() bool { return d >= North }

func (d Direction) String() string {
	if int(d) < len(names) {
		return names[d]
	}
	return "invalid"
}

// Excluding returns the five-direction subset that skips d.
func Excluding(d Direction) [5]Direction {
	switch d {
	case Up:
		return NotUp
	case Down:
		return NotDown
	case North:
		return NotNorth
	case South:
		return NotSouth
	case East:
		return NotEast
	default:
		return NotWest
	}
}

// ParseDirection accepts the lower-case names used in catalogs.
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return Direction(i), true
		}
	}
	return 0, false
}
