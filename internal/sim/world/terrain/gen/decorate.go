package gen

import (
	"strings"

	"voxelfire.ai/internal/sim/rng"
	"voxelfire.ai/internal/sim/world/feature/seeding"
	"voxelfire.ai/internal/sim/world/logic/mapx"
	"voxelfire.ai/internal/sim/world/logic/mathx"
)

const ChunkSize = 16

type Kind string

const (
	KindTree    Kind = "TREE"
	KindBrush   Kind = "BRUSH"
	KindBoulder Kind = "BOULDER"
)

// Decoration is one feature kind scattered over every chunk.
type Decoration struct {
	Name           string
	Tag            int32
	Kind           Kind
	Attempts       int
	ChancePermille int
	Biomes         []string // empty means everywhere
}

// Palette maps decoration materials to block ids.
type Palette struct {
	Air    uint16
	Log    uint16
	Leaves uint16
	Brush  uint16
	Stone  uint16
}

// Target is a single chunk in local coordinates.
type Target interface {
	Height() int
	Get(x, y, z int) uint16
	Set(x, y, z int, b uint16)
}

// Placement records one decoration attempt and the seed it ran under.
type Placement struct {
	CX, CZ  int
	Name    string
	Tag     int32
	Index   int32
	Seed    int64
	Placed  bool
	X, Y, Z int // world coordinates of the anchor when Placed
}

type treeVariant struct {
	trunk  int
	canopy int
}

var treeVariants = map[string]treeVariant{
	"oak":   {trunk: 4, canopy: 2},
	"birch": {trunk: 5, canopy: 1},
	"shrub": {trunk: 1, canopy: 1},
	"tall":  {trunk: 7, canopy: 2},
}

// Decorator places decorations into freshly generated chunks.
type Decorator struct {
	Seed            int64
	BiomeRegionSize int
	Decorations     []Decoration
	Palette         Palette
}

// ChunkBaseSeed is the seed every decoration attempt in a chunk starts from;
// attempts are told apart by (index, tag) through seeding.Mix.
func (d *Decorator) ChunkBaseSeed(cx, cz int) int64 {
	return seeding.ChunkSeed(d.Seed, cx, cz, 0)
}

// Decorate runs every decoration attempt for chunk (cx, cz). g is scratch:
// it is reseeded before each attempt, so its incoming state is irrelevant.
// Writes are clipped to the chunk.
func (d *Decorator) Decorate(t Target, g rng.Generator, cx, cz int) []Placement {
	base := d.ChunkBaseSeed(cx, cz)
	var out []Placement
	for _, dec := range d.Decorations {
		for i := 0; i < dec.Attempts; i++ {
			p := Placement{CX: cx, CZ: cz, Name: dec.Name, Tag: dec.Tag, Index: int32(i)}
			p.Seed = seeding.Mix(g, base, p.Index, dec.Tag)

			if int(g.NextInt(1000)) >= ClampPermille(dec.ChancePermille) {
				out = append(out, p)
				continue
			}
			lx := int(g.NextInt(ChunkSize))
			lz := int(g.NextInt(ChunkSize))
			wx, wz := cx*ChunkSize+lx, cz*ChunkSize+lz
			// Biomes resolve on the quarter-resolution grid.
			bx, _, bz := mathx.QuartToBlock(wx>>2, 0, wz>>2)
			if !dec.allows(BiomeAt(d.Seed, bx, bz, d.BiomeRegionSize)) {
				out = append(out, p)
				continue
			}
			y, ok := surfaceY(t, lx, lz, d.Palette.Air)
			if ok {
				switch dec.Kind {
				case KindTree:
					p.Placed = d.placeTree(t, g, lx, y, lz)
				case KindBrush:
					p.Placed = d.placeBrush(t, lx, y, lz)
				case KindBoulder:
					p.Placed = d.placeBoulder(t, g, lx, y, lz)
				}
			}
			if p.Placed {
				p.X, p.Y, p.Z = wx, y, wz
			}
			out = append(out, p)
		}
	}
	return out
}

func (dec Decoration) allows(biome string) bool {
	if len(dec.Biomes) == 0 {
		return true
	}
	for _, b := range dec.Biomes {
		if strings.EqualFold(b, biome) {
			return true
		}
	}
	return false
}

// surfaceY returns the lowest air cell above the top non-air cell of a column.
func surfaceY(t Target, x, z int, air uint16) (int, bool) {
	for y := t.Height() - 1; y >= 0; y-- {
		if t.Get(x, y, z) != air {
			if y+1 >= t.Height() {
				return 0, false
			}
			return y + 1, true
		}
	}
	return 0, false
}

func inChunk(t Target, x, y, z int) bool {
	return x >= 0 && x < ChunkSize && z >= 0 && z < ChunkSize && y >= 0 && y < t.Height()
}

func (d *Decorator) setIfAir(t Target, x, y, z int, b uint16) bool {
	if !inChunk(t, x, y, z) || t.Get(x, y, z) != d.Palette.Air {
		return false
	}
	t.Set(x, y, z, b)
	return true
}

func (d *Decorator) placeTree(t Target, g rng.Generator, x, y, z int) bool {
	v, ok := mapx.RandomValue(treeVariants, g)
	if !ok || y+v.trunk+v.canopy >= t.Height() {
		return false
	}
	for i := 0; i < v.trunk; i++ {
		if !d.setIfAir(t, x, y+i, z, d.Palette.Log) {
			return i > 0
		}
	}
	top := y + v.trunk
	for dy := -1; dy <= v.canopy; dy++ {
		for dz := -v.canopy; dz <= v.canopy; dz++ {
			for dx := -v.canopy; dx <= v.canopy; dx++ {
				if dx*dx+dz*dz+dy*dy > v.canopy*v.canopy+1 {
					continue
				}
				d.setIfAir(t, x+dx, top+dy, z+dz, d.Palette.Leaves)
			}
		}
	}
	return true
}

func (d *Decorator) placeBrush(t Target, x, y, z int) bool {
	return d.setIfAir(t, x, y, z, d.Palette.Brush)
}

func (d *Decorator) placeBoulder(t Target, g rng.Generator, x, y, z int) bool {
	if !d.setIfAir(t, x, y, z, d.Palette.Stone) {
		return false
	}
	// A boulder grows up to four side stones.
	n := int(g.NextInt(5))
	sides := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for i := 0; i < n; i++ {
		d.setIfAir(t, x+sides[i][0], y, z+sides[i][1], d.Palette.Stone)
	}
	return true
}
