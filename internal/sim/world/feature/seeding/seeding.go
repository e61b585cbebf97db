// Package seeding derives decorrelated generator seeds for features that are
// placed one after another from a shared base seed.
//
// A 48-bit LCG reseeded with n, n+1, n+2 yields first outputs that differ only
// by the multiplier's contribution to the high bits (about 1500/2^24 for a
// float), so sequential chance placements cluster on the same chunks. Mix
// spreads nearby (index, decoration) pairs across the whole 64-bit seed space.
package seeding

import (
	"voxelfire.ai/internal/sim/rng"
	"voxelfire.ai/internal/sim/world/logic/mathx"
)

const (
	indexFactor      int64 = 203704237
	decorationFactor int64 = 758031792
)

// Mix reseeds g with baseSeed, takes one 64-bit draw, folds it with index and
// decoration, reseeds g with the result and returns it. All arithmetic wraps.
func Mix(g rng.Generator, baseSeed int64, index, decoration int32) int64 {
	g.SetSeed(baseSeed)
	r := g.NextInt64()
	derived := (int64(index) * r * indexFactor) ^ (int64(decoration) * r * decorationFactor) ^ baseSeed
	g.SetSeed(derived)
	return derived
}

// ChunkSeed is the per-chunk base seed the decoration pass feeds to Mix.
func ChunkSeed(worldSeed int64, cx, cz int, salt int64) int64 {
	return int64(mathx.Hash2(worldSeed+salt, cx, cz))
}
