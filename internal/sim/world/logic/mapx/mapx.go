// Package mapx has small generic map helpers that stay deterministic under
// Go's randomized map iteration.
package mapx

import (
	"cmp"
	"slices"

	"voxelfire.ai/internal/sim/rng"
)

// MapValues returns a new map with f applied to every value.
func MapValues[K comparable, V1, V2 any](m map[K]V1, f func(V1) V2) map[K]V2 {
	out := make(map[K]V2, len(m))
	for k, v := range m {
		out[k] = f(v)
	}
	return out
}

func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RandomValue picks one value using g. Keys are visited in sorted order so a
// given generator state always picks the same entry. ok is false for an
// empty map.
func RandomValue[K cmp.Ordered, V any](m map[K]V, g rng.Generator) (v V, ok bool) {
	if len(m) == 0 {
		return v, false
	}
	keys := SortedKeys(m)
	return m[keys[g.NextInt(int32(len(keys)))]], true
}
