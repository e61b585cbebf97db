// Package grid holds cell coordinates and the axis direction tables used by
// neighbour scans.
package grid

import "fmt"

type Pos struct {
	X, Y, Z int32
}

func (p Pos) Add(o Pos) Pos {
	return Pos{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Relative returns the cell one step from p in direction d.
func (p Pos) Relative(d Direction) Pos {
	return p.Add(d.Offset())
}

func (p Pos) Above() Pos { return p.Relative(Up) }

func (p Pos) Less(o Pos) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Z != o.Z {
		return p.Z < o.Z
	}
	return p.Y < o.Y
}

func (p Pos) Ints() (x, y, z int) {
	return int(p.X), int(p.Y), int(p.Z)
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}
