package gen

import (
	"testing"

	"voxelfire.ai/internal/sim/rng"
	"voxelfire.ai/internal/sim/world/feature/seeding"
)

type memChunk struct {
	h      int
	blocks []uint16
}

func newMemChunk(h, ground int, fill uint16) *memChunk {
	c := &memChunk{h: h, blocks: make([]uint16, ChunkSize*ChunkSize*h)}
	for y := 0; y < ground; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				c.Set(x, y, z, fill)
			}
		}
	}
	return c
}

func (c *memChunk) Height() int            { return c.h }
func (c *memChunk) Get(x, y, z int) uint16 { return c.blocks[x+z*ChunkSize+y*ChunkSize*ChunkSize] }
func (c *memChunk) Set(x, y, z int, b uint16) {
	c.blocks[x+z*ChunkSize+y*ChunkSize*ChunkSize] = b
}

var testPalette = Palette{Air: 0, Log: 1, Leaves: 2, Brush: 3, Stone: 4}

func testDecorator() *Decorator {
	return &Decorator{
		Seed:            42,
		BiomeRegionSize: 64,
		Palette:         testPalette,
		Decorations: []Decoration{
			{Name: "trees", Tag: 1, Kind: KindTree, Attempts: 4, ChancePermille: 1000},
			{Name: "brush", Tag: 2, Kind: KindBrush, Attempts: 8, ChancePermille: 1000},
			{Name: "boulders", Tag: 3, Kind: KindBoulder, Attempts: 2, ChancePermille: 500},
		},
	}
}

func TestDecorate_Deterministic(t *testing.T) {
	d := testDecorator()
	a := newMemChunk(32, 8, 9)
	b := newMemChunk(32, 8, 9)
	pa := d.Decorate(a, rng.NewJavaRandom(1), 3, -2)
	pb := d.Decorate(b, rng.NewJavaRandom(12345), 3, -2)
	if len(pa) != len(pb) {
		t.Fatalf("placement counts differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("placement %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
	for i := range a.blocks {
		if a.blocks[i] != b.blocks[i] {
			t.Fatalf("chunk contents differ at %d", i)
		}
	}
}

func TestDecorate_SeedsComeFromMix(t *testing.T) {
	d := testDecorator()
	ps := d.Decorate(newMemChunk(32, 8, 9), rng.NewJavaRandom(0), 0, 0)
	if len(ps) != 4+8+2 {
		t.Fatalf("attempts=%d want 14", len(ps))
	}
	base := d.ChunkBaseSeed(0, 0)
	seen := map[int64]bool{}
	for _, p := range ps {
		want := seeding.Mix(rng.NewJavaRandom(0), base, p.Index, p.Tag)
		if p.Seed != want {
			t.Fatalf("%s[%d] seed=%d want %d", p.Name, p.Index, p.Seed, want)
		}
		if seen[p.Seed] {
			t.Fatalf("%s[%d] reused seed %d", p.Name, p.Index, p.Seed)
		}
		seen[p.Seed] = true
	}
}

func TestDecorate_PlacesOnSurface(t *testing.T) {
	d := testDecorator()
	d.Decorations = []Decoration{{Name: "brush", Tag: 2, Kind: KindBrush, Attempts: 16, ChancePermille: 1000}}
	c := newMemChunk(32, 8, 9)
	placed := 0
	for _, p := range d.Decorate(c, rng.NewJavaRandom(0), 1, 1) {
		if !p.Placed {
			continue
		}
		placed++
		if p.Y < 8 {
			t.Fatalf("brush at y=%d below the surface", p.Y)
		}
		if got := c.Get(Mod(p.X, ChunkSize), p.Y, Mod(p.Z, ChunkSize)); got != testPalette.Brush {
			t.Fatalf("block at placement=%d want brush", got)
		}
	}
	if placed == 0 {
		t.Fatalf("no brush placed with chance 1000")
	}
}

func TestDecorate_ZeroChancePlacesNothing(t *testing.T) {
	d := testDecorator()
	for i := range d.Decorations {
		d.Decorations[i].ChancePermille = 0
	}
	c := newMemChunk(32, 8, 9)
	for _, p := range d.Decorate(c, rng.NewJavaRandom(0), 0, 0) {
		if p.Placed {
			t.Fatalf("placed %s with zero chance", p.Name)
		}
	}
	for y := 8; y < 32; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				if c.Get(x, y, z) != testPalette.Air {
					t.Fatalf("block above ground at (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}

func TestDecorate_BiomeFilter(t *testing.T) {
	d := testDecorator()
	d.Decorations = []Decoration{{Name: "x", Tag: 9, Kind: KindBrush, Attempts: 16, ChancePermille: 1000, Biomes: []string{"NOWHERE"}}}
	for _, p := range d.Decorate(newMemChunk(32, 8, 9), rng.NewJavaRandom(0), 0, 0) {
		if p.Placed {
			t.Fatalf("placed outside allowed biomes")
		}
	}
}

func TestSurfaceHeight_Bounds(t *testing.T) {
	for x := -40; x < 40; x += 3 {
		for z := -40; z < 40; z += 5 {
			y := SurfaceHeight(7, x, z, 16, 64)
			if y < 14 || y > 18 {
				t.Fatalf("SurfaceHeight(%d,%d)=%d outside ground±2", x, z, y)
			}
		}
	}
	if y := SurfaceHeight(7, 0, 0, 0, 64); y < 1 {
		t.Fatalf("SurfaceHeight below 1: %d", y)
	}
}

func TestInCluster_ZeroProb(t *testing.T) {
	if InCluster(1, 0, 0, 16, 4, 0) {
		t.Fatalf("zero probability cluster matched")
	}
}
