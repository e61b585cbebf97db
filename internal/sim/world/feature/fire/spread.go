// Package fire implements the bounded random walk that lets a burning cell
// ignite nearby air next to flammable matter.
package fire

import (
	"fmt"

	"voxelfire.ai/internal/sim/rng"
	"voxelfire.ai/internal/sim/world/logic/grid"
)

// RuleDoFireTick gates all spreading.
const RuleDoFireTick = "doFireTick"

// climbChance is the per-step probability of the walk moving up one cell.
const climbChance = 0.25

// Grid is the world surface the walk reads and mutates. Out-of-range cells
// must answer as not empty and not flammable.
type Grid interface {
	RuleEnabled(name string) bool
	IsEmpty(p grid.Pos) bool
	// IsFlammable reports whether the cell at p catches fire from its face.
	IsFlammable(p grid.Pos, face grid.Direction) bool
	Ignite(p grid.Pos)
}

// Step walks up to maxSteps cells from origin. Each step moves one cell on a
// random horizontal axis and climbs one cell with probability 0.25; the walk
// stops at the first non-empty cell, or ignites the first empty cell that
// touches something flammable. At most one cell is ignited per call.
//
// g is drawn from in a fixed order (direction, then climb) so identical seeds
// and grids replay identical walks. A negative maxSteps is a caller bug.
func Step(w Grid, origin grid.Pos, g rng.Generator, maxSteps int) {
	if maxSteps < 0 {
		panic(fmt.Sprintf("fire: negative step budget %d", maxSteps))
	}
	if !w.RuleEnabled(RuleDoFireTick) {
		return
	}
	pos := origin
	for i := 0; i < maxSteps; i++ {
		pos = pos.Relative(grid.Horizontal[g.NextInt(int32(len(grid.Horizontal)))])
		if g.NextFloat() < climbChance {
			pos = pos.Above()
		}
		if !w.IsEmpty(pos) {
			return
		}
		if HasFlammableNeighbours(w, pos) {
			w.Ignite(pos)
			return
		}
	}
}

// HasFlammableNeighbours checks all six faces around p.
func HasFlammableNeighbours(w Grid, p grid.Pos) bool {
	for _, d := range grid.All {
		if w.IsFlammable(p.Relative(d), d.Opposite()) {
			return true
		}
	}
	return false
}
