package store

import (
	"testing"

	genpkg "voxelfire.ai/internal/sim/world/terrain/gen"
)

func testGen() WorldGen {
	return WorldGen{
		Seed:            42,
		BoundaryR:       64,
		Height:          32,
		BiomeRegionSize: 64,
		GroundLevel:     10,
		Air:             0,
		Dirt:            1,
		Grass:           2,
		Sand:            3,
		Stone:           4,
		Gravel:          5,
	}
}

func TestInBounds(t *testing.T) {
	s := NewChunkStore(testGen())
	cases := []struct {
		x, y, z int
		want    bool
	}{
		{0, 0, 0, true},
		{64, 31, -64, true},
		{65, 0, 0, false},
		{0, -1, 0, false},
		{0, 32, 0, false},
	}
	for _, c := range cases {
		if got := s.InBounds(c.x, c.y, c.z); got != c.want {
			t.Fatalf("InBounds(%d,%d,%d)=%v want %v", c.x, c.y, c.z, got, c.want)
		}
	}
	if _, ok := s.GetBlock(0, 40, 0); ok {
		t.Fatalf("GetBlock above world reported ok")
	}
	if s.SetBlock(100, 0, 0, 4) {
		t.Fatalf("SetBlock outside boundary reported ok")
	}
}

func TestGenerate_GroundThenAir(t *testing.T) {
	s := NewChunkStore(testGen())
	for x := -20; x < 20; x += 7 {
		for z := -20; z < 20; z += 5 {
			surface := genpkg.SurfaceHeight(42, x, z, 10, 32)
			below, _ := s.GetBlock(x, surface-1, z)
			at, _ := s.GetBlock(x, surface, z)
			if below == 0 {
				t.Fatalf("(%d,%d): ground cell at y=%d is air", x, z, surface-1)
			}
			if at != 0 {
				t.Fatalf("(%d,%d): surface cell at y=%d is %d, want air", x, z, surface, at)
			}
		}
	}
}

func TestGenerate_DeterministicDigest(t *testing.T) {
	a := NewChunkStore(testGen())
	b := NewChunkStore(testGen())
	if a.GetOrGenChunk(2, -3).Digest() != b.GetOrGenChunk(2, -3).Digest() {
		t.Fatalf("same seed produced different chunks")
	}
	g := testGen()
	g.Seed = 43
	c := NewChunkStore(g)
	if a.GetOrGenChunk(2, -3).Digest() == c.GetOrGenChunk(2, -3).Digest() {
		t.Fatalf("different seeds produced identical chunks")
	}
}

func TestGenerate_RunsDecorator(t *testing.T) {
	g := testGen()
	g.Decorator = &genpkg.Decorator{
		Seed:            g.Seed,
		BiomeRegionSize: g.BiomeRegionSize,
		Palette:         genpkg.Palette{Air: 0, Log: 6, Leaves: 7, Brush: 8, Stone: 4},
		Decorations: []genpkg.Decoration{
			{Name: "brush", Tag: 2, Kind: genpkg.KindBrush, Attempts: 8, ChancePermille: 1000},
		},
	}
	s := NewChunkStore(g)
	var got []genpkg.Placement
	s.OnDecorate = func(ps []genpkg.Placement) { got = append(got, ps...) }
	s.GetOrGenChunk(0, 0)
	s.GetOrGenChunk(0, 0)
	if len(got) != 8 {
		t.Fatalf("placements=%d want 8 (one chunk generated once)", len(got))
	}
	for _, p := range got {
		if !p.Placed {
			continue
		}
		if b, _ := s.GetBlock(p.X, p.Y, p.Z); b != 8 {
			t.Fatalf("brush missing at (%d,%d,%d): %d", p.X, p.Y, p.Z, b)
		}
	}
}

func TestLoadedChunkKeys_Sorted(t *testing.T) {
	s := NewChunkStore(testGen())
	s.GetOrGenChunk(1, 0)
	s.GetOrGenChunk(-1, 2)
	s.GetOrGenChunk(-1, -2)
	keys := s.LoadedChunkKeys()
	want := []ChunkKey{{-1, -2}, {-1, 2}, {1, 0}}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys=%v want %v", keys, want)
		}
	}
}
