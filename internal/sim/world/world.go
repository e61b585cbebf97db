package world

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"voxelfire.ai/internal/logging"
	"voxelfire.ai/internal/sim/catalogs"
	"voxelfire.ai/internal/sim/rng"
	"voxelfire.ai/internal/sim/world/logic/grid"
	"voxelfire.ai/internal/sim/world/terrain/gen"
	"voxelfire.ai/internal/sim/world/terrain/store"
)

// World owns the voxel grid, the burning cells and the tick generator. It is
// single goroutine: callers serialise Step, Ignite and snapshot calls.
type World struct {
	cfg    WorldConfig
	cats   *catalogs.Catalogs
	blocks blockIDs
	chunks *store.ChunkStore
	log    zerolog.Logger

	// rand is reseeded once per tick and shared by every walk of that tick.
	rand *rng.JavaRandom
	tick uint64

	// fires maps a burning cell to the tick it caught.
	fires map[grid.Pos]uint64

	// Per-tick scratch, drained into the TickLogEntry.
	origin    grid.Pos
	ignitions []Ignition
	features  []FeatureRecord
}

type blockIDs struct {
	air    uint16
	fire   uint16
	dirt   uint16
	grass  uint16
	sand   uint16
	stone  uint16
	gravel uint16
	log    uint16
	leaves uint16
	brush  uint16
}

type Option func(*World)

// WithLogger replaces the default no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *World) { w.log = l }
}

func New(cfg WorldConfig, cats *catalogs.Catalogs, opts ...Option) (*World, error) {
	cfg.applyDefaults()
	if cats == nil {
		cats = catalogs.Defaults()
	}
	w := &World{
		cfg:   cfg,
		log:   logging.Nop(),
		rand:  rng.NewJavaRandom(cfg.Seed),
		fires: map[grid.Pos]uint64{},
	}
	for _, o := range opts {
		o(w)
	}
	if err := w.bindCatalogs(cats); err != nil {
		return nil, err
	}
	w.chunks = store.NewChunkStore(w.worldGen())
	w.chunks.OnDecorate = w.recordPlacements
	w.log.Info().
		Str("world", cfg.ID).
		Int64("seed", cfg.Seed).
		Int("height", cfg.Height).
		Int("boundary_r", cfg.BoundaryR).
		Str("catalogs", cats.Source).
		Msg("world created")
	return w, nil
}

func (w *World) bindCatalogs(cats *catalogs.Catalogs) error {
	bc := &cats.Blocks
	ids := blockIDs{
		air:  bc.MustID(catalogs.BlockAir),
		fire: bc.MustID(catalogs.BlockFire),
	}
	var missing []string
	lookup := func(name string, dst *uint16) {
		id, ok := bc.ID(name)
		if !ok {
			missing = append(missing, name)
			return
		}
		*dst = id
	}
	lookup("DIRT", &ids.dirt)
	lookup("GRASS", &ids.grass)
	lookup("SAND", &ids.sand)
	lookup("STONE", &ids.stone)
	lookup("GRAVEL", &ids.gravel)
	lookup("LOG", &ids.log)
	lookup("LEAVES", &ids.leaves)
	lookup("DRY_BRUSH", &ids.brush)
	if len(missing) > 0 {
		return fmt.Errorf("block catalog %s missing %v", cats.Source, missing)
	}
	w.cats = cats
	w.blocks = ids
	return nil
}

func (w *World) worldGen() store.WorldGen {
	c := w.cfg
	b := w.blocks
	return store.WorldGen{
		Seed:                            c.Seed,
		BoundaryR:                       c.BoundaryR,
		Height:                          c.Height,
		BiomeRegionSize:                 c.BiomeRegionSize,
		SpawnClearRadius:                c.SpawnClearRadius,
		GroundLevel:                     c.GroundLevel,
		TerrainClusterProbScalePermille: c.TerrainClusterProbScalePermille,
		Air:                             b.air,
		Dirt:                            b.dirt,
		Grass:                           b.grass,
		Sand:                            b.sand,
		Stone:                           b.stone,
		Gravel:                          b.gravel,
		Decorator: &gen.Decorator{
			Seed:            c.Seed,
			BiomeRegionSize: c.BiomeRegionSize,
			Decorations:     c.Decorations,
			Palette: gen.Palette{
				Air:    b.air,
				Log:    b.log,
				Leaves: b.leaves,
				Brush:  b.brush,
				Stone:  b.stone,
			},
		},
	}
}

func (w *World) ID() string                   { return w.cfg.ID }
func (w *World) Config() WorldConfig          { return w.cfg }
func (w *World) CurrentTick() uint64          { return w.tick }
func (w *World) Catalogs() *catalogs.Catalogs { return w.cats }

// ReloadCatalogs swaps in a new block catalog. The palette must match the
// current one since stored chunks hold raw ids.
func (w *World) ReloadCatalogs(cats *catalogs.Catalogs) error {
	if cats == nil {
		return fmt.Errorf("nil catalogs")
	}
	if cats.Blocks.PaletteDigest != w.cats.Blocks.PaletteDigest {
		return fmt.Errorf("palette changed (%s -> %s); restart from a fresh world", w.cats.Blocks.PaletteDigest, cats.Blocks.PaletteDigest)
	}
	if err := w.bindCatalogs(cats); err != nil {
		return err
	}
	w.log.Info().Str("catalogs", cats.Source).Str("defs_digest", cats.Blocks.DefsDigest).Msg("catalogs reloaded")
	return nil
}

// SetRule toggles a game rule such as doFireTick.
func (w *World) SetRule(name string, on bool) {
	w.cfg.GameRules[name] = on
}

// FireCells returns every burning cell in ascending position order.
func (w *World) FireCells() []grid.Pos {
	out := make([]grid.Pos, 0, len(w.fires))
	for p := range w.fires {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// BlockAt returns the block name at p, or "" when p is outside the world.
func (w *World) BlockAt(p grid.Pos) string {
	x, y, z := p.Ints()
	b, ok := w.chunks.GetBlock(x, y, z)
	if !ok || int(b) >= len(w.cats.Blocks.Palette) {
		return ""
	}
	return w.cats.Blocks.Palette[b]
}

// SetBlock writes a named block at p. Overwriting a fire cell puts it out.
func (w *World) SetBlock(p grid.Pos, name string) error {
	id, ok := w.cats.Blocks.ID(name)
	if !ok {
		return fmt.Errorf("unknown block %q", name)
	}
	if !w.setBlockID(p, id) {
		return fmt.Errorf("%s is outside the world", p)
	}
	return nil
}

func (w *World) setBlockID(p grid.Pos, id uint16) bool {
	x, y, z := p.Ints()
	if !w.chunks.SetBlock(x, y, z, id) {
		return false
	}
	if id != w.blocks.fire {
		delete(w.fires, p)
	}
	return true
}

// IgniteAt sets p on fire from outside the simulation. The cell must be air.
func (w *World) IgniteAt(p grid.Pos) error {
	x, y, z := p.Ints()
	b, ok := w.chunks.GetBlock(x, y, z)
	if !ok {
		return fmt.Errorf("%s is outside the world", p)
	}
	if b != w.blocks.air {
		return fmt.Errorf("%s is not air", p)
	}
	w.setFire(p)
	w.log.Debug().Str("pos", p.String()).Uint64("tick", w.tick).Msg("ignited")
	return nil
}

// ExtinguishAll turns every fire back into air and returns how many went out.
func (w *World) ExtinguishAll() int {
	n := 0
	for _, p := range w.FireCells() {
		if w.setBlockID(p, w.blocks.air) {
			n++
		}
	}
	return n
}

// SurfaceAt is the first air cell scanning down from the top of column (x, z).
func (w *World) SurfaceAt(x, z int) (grid.Pos, bool) {
	for y := w.cfg.Height - 1; y > 0; y-- {
		below, ok := w.chunks.GetBlock(x, y-1, z)
		if !ok {
			return grid.Pos{}, false
		}
		if below != w.blocks.air {
			return grid.Pos{X: int32(x), Y: int32(y), Z: int32(z)}, true
		}
	}
	return grid.Pos{}, false
}

func (w *World) setFire(p grid.Pos) {
	x, y, z := p.Ints()
	if w.chunks.SetBlock(x, y, z, w.blocks.fire) {
		w.fires[p] = w.tick
	}
}

func (w *World) recordPlacements(ps []gen.Placement) {
	for _, p := range ps {
		w.features = append(w.features, FeatureRecord{
			CX:     p.CX,
			CZ:     p.CZ,
			Name:   p.Name,
			Tag:    p.Tag,
			Index:  p.Index,
			Seed:   p.Seed,
			Placed: p.Placed,
			Pos:    [3]int{p.X, p.Y, p.Z},
		})
	}
}
