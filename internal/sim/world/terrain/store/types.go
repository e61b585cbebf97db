package store

import (
	"crypto/sha256"
	"encoding/binary"

	"voxelfire.ai/internal/sim/rng"
	genpkg "voxelfire.ai/internal/sim/world/terrain/gen"
)

const ChunkSize = genpkg.ChunkSize

type ChunkKey struct {
	CX int
	CZ int
}

// Chunk is a 16x16 column stack of H cells. Blocks index as x + z*16 + y*256.
type Chunk struct {
	CX, CZ int
	H      int
	Blocks []uint16

	dirty bool
	hash  [32]byte
}

func newChunk(cx, cz, h int) *Chunk {
	return &Chunk{CX: cx, CZ: cz, H: h, Blocks: make([]uint16, ChunkSize*ChunkSize*h)}
}

func (c *Chunk) index(x, y, z int) int {
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

func (c *Chunk) Height() int { return c.H }

func (c *Chunk) Get(x, y, z int) uint16 {
	return c.Blocks[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, b uint16) {
	i := c.index(x, y, z)
	if c.Blocks[i] == b {
		return
	}
	c.Blocks[i] = b
	c.dirty = true
}

func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

type WorldGen struct {
	Seed      int64
	BoundaryR int // blocks; 0 means unbounded
	Height    int

	BiomeRegionSize                 int
	SpawnClearRadius                int
	GroundLevel                     int
	TerrainClusterProbScalePermille int

	Air    uint16
	Dirt   uint16
	Grass  uint16
	Sand   uint16
	Stone  uint16
	Gravel uint16

	// Decorator runs after base terrain; nil leaves chunks bare.
	Decorator *genpkg.Decorator
}

type ChunkStore struct {
	Gen    WorldGen
	Chunks map[ChunkKey]*Chunk

	// OnDecorate observes every decoration attempt of newly generated chunks.
	OnDecorate func([]genpkg.Placement)

	// scratch generator for decoration; reseeded per attempt.
	rand *rng.JavaRandom
}

func NewChunkStore(gen WorldGen) *ChunkStore {
	if gen.Height <= 0 {
		gen.Height = 1
	}
	return &ChunkStore{
		Gen:    gen,
		Chunks: map[ChunkKey]*Chunk{},
		rand:   rng.NewJavaRandom(gen.Seed),
	}
}
