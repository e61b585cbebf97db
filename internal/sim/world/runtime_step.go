package world

import (
	"voxelfire.ai/internal/sim/world/feature/fire"
	"voxelfire.ai/internal/sim/world/feature/seeding"
)

// Step advances one tick. The tick generator is reseeded once from
// (seed, tick, TagFireSpread), then every cell burning at the start of the
// tick runs one spread walk in ascending position order. Cells caught this
// tick do not spread until the next one.
func (w *World) Step() TickLogEntry {
	tick := w.tick
	entry := TickLogEntry{Tick: tick}
	entry.Seed = seeding.Mix(w.rand, w.cfg.Seed, int32(tick), TagFireSpread)

	origins := w.FireCells()
	entry.Origins = len(origins)
	if w.RuleEnabled(fire.RuleDoFireTick) {
		for _, o := range origins {
			w.origin = o
			fire.Step(w, o, w.rand, w.cfg.FireSpreadSteps)
		}
	}
	entry.BurnedOut = w.burnOut(tick)

	entry.Ignitions = w.ignitions
	entry.Features = w.features
	w.ignitions = nil
	w.features = nil
	entry.Fires = len(w.fires)
	entry.Digest = w.StateDigest()

	if len(entry.Ignitions) > 0 || len(entry.BurnedOut) > 0 {
		w.log.Debug().
			Uint64("tick", tick).
			Int("ignitions", len(entry.Ignitions)).
			Int("burned_out", len(entry.BurnedOut)).
			Int("fires", entry.Fires).
			Msg("fire tick")
	}
	w.tick++
	return entry
}

// burnOut clears fires that have burned for FireBurnTicks. Zero keeps fires
// alive forever.
func (w *World) burnOut(tick uint64) [][3]int {
	if w.cfg.FireBurnTicks <= 0 {
		return nil
	}
	var out [][3]int
	for _, p := range w.FireCells() {
		if tick-w.fires[p] < uint64(w.cfg.FireBurnTicks) {
			continue
		}
		if w.setBlockID(p, w.blocks.air) {
			x, y, z := p.Ints()
			out = append(out, [3]int{x, y, z})
		}
	}
	return out
}
