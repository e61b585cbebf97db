package store

import (
	"fmt"

	snapv1 "voxelfire.ai/internal/persistence/snapshot"
	"voxelfire.ai/internal/sim/encoding"
)

// ExportLoadedChunks converts loaded chunk data into snapshot chunks.
func ExportLoadedChunks(chunks map[ChunkKey]*Chunk, keys []ChunkKey) []snapv1.ChunkV1 {
	out := make([]snapv1.ChunkV1, 0, len(keys))
	for _, k := range keys {
		ch := chunks[k]
		if ch == nil {
			continue
		}
		out = append(out, snapv1.ChunkV1{
			CX:     k.CX,
			CZ:     k.CZ,
			Height: ch.H,
			RLE:    encoding.EncodeRLE(ch.Blocks),
		})
	}
	return out
}

// ImportChunks rebuilds a chunk store from snapshot chunks. Chunks missing
// from the snapshot regenerate on first touch.
func ImportChunks(gen WorldGen, chunks []snapv1.ChunkV1) (*ChunkStore, error) {
	store := NewChunkStore(gen)
	for _, ch := range chunks {
		if ch.Height != store.Gen.Height {
			return nil, fmt.Errorf("snapshot chunk height mismatch: got %d want %d", ch.Height, store.Gen.Height)
		}
		want := ChunkSize * ChunkSize * ch.Height
		blocks, err := encoding.DecodeRLE(ch.RLE, want)
		if err != nil {
			return nil, fmt.Errorf("snapshot chunk (%d,%d): %w", ch.CX, ch.CZ, err)
		}
		c := &Chunk{
			CX:     ch.CX,
			CZ:     ch.CZ,
			H:      ch.Height,
			Blocks: blocks,
		}
		_ = c.Digest()
		store.Chunks[ChunkKey{CX: ch.CX, CZ: ch.CZ}] = c
	}
	return store, nil
}
