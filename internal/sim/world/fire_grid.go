package world

import (
	"voxelfire.ai/internal/sim/world/feature/fire"
	"voxelfire.ai/internal/sim/world/logic/grid"
)

var _ fire.Grid = (*World)(nil)

func (w *World) RuleEnabled(name string) bool {
	return w.cfg.GameRules[name]
}

// IsEmpty is true only for in-bounds air.
func (w *World) IsEmpty(p grid.Pos) bool {
	x, y, z := p.Ints()
	b, ok := w.chunks.GetBlock(x, y, z)
	return ok && b == w.blocks.air
}

func (w *World) IsFlammable(p grid.Pos, face grid.Direction) bool {
	x, y, z := p.Ints()
	b, ok := w.chunks.GetBlock(x, y, z)
	return ok && w.cats.Blocks.FlammableFrom(b, face)
}

// Ignite is called by the spread walk; it records which burning cell the
// walk started from.
func (w *World) Ignite(p grid.Pos) {
	if _, burning := w.fires[p]; burning {
		return
	}
	w.setFire(p)
	if _, ok := w.fires[p]; !ok {
		return
	}
	ox, oy, oz := w.origin.Ints()
	x, y, z := p.Ints()
	w.ignitions = append(w.ignitions, Ignition{Pos: [3]int{x, y, z}, From: [3]int{ox, oy, oz}})
}
