package world

import (
	"fmt"

	snapv1 "voxelfire.ai/internal/persistence/snapshot"
	"voxelfire.ai/internal/sim/catalogs"
	"voxelfire.ai/internal/sim/world/logic/grid"
	"voxelfire.ai/internal/sim/world/terrain/gen"
	"voxelfire.ai/internal/sim/world/terrain/store"
)

// ExportSnapshot captures the world at the start of the current tick.
func (w *World) ExportSnapshot() snapv1.SnapshotV1 {
	rules := make(map[string]bool, len(w.cfg.GameRules))
	for k, v := range w.cfg.GameRules {
		rules[k] = v
	}
	snap := snapv1.SnapshotV1{
		Header: snapv1.Header{
			Version: snapv1.Version,
			WorldID: w.cfg.ID,
			Tick:    w.tick,
		},
		Seed:                            w.cfg.Seed,
		TickRate:                        w.cfg.TickRateHz,
		Height:                          w.cfg.Height,
		BoundaryR:                       w.cfg.BoundaryR,
		BiomeRegionSize:                 w.cfg.BiomeRegionSize,
		SpawnClearRadius:                w.cfg.SpawnClearRadius,
		GroundLevel:                     w.cfg.GroundLevel,
		TerrainClusterProbScalePermille: w.cfg.TerrainClusterProbScalePermille,
		FireSpreadSteps:                 w.cfg.FireSpreadSteps,
		FireBurnTicks:                   w.cfg.FireBurnTicks,
		GameRules:                       rules,
		PaletteDigest:                   w.cats.Blocks.PaletteDigest,
		Chunks:                          store.ExportLoadedChunks(w.chunks.Chunks, w.chunks.LoadedChunkKeys()),
	}
	for _, d := range w.cfg.Decorations {
		snap.Decorations = append(snap.Decorations, snapv1.DecorationV1{
			Name:           d.Name,
			Tag:            d.Tag,
			Kind:           string(d.Kind),
			Attempts:       d.Attempts,
			ChancePermille: d.ChancePermille,
			Biomes:         append([]string(nil), d.Biomes...),
		})
	}
	for _, p := range w.FireCells() {
		x, y, z := p.Ints()
		snap.Fires = append(snap.Fires, snapv1.FireV1{X: x, Y: y, Z: z, SinceTick: w.fires[p]})
	}
	return snap
}

// ImportSnapshot rebuilds a world from snap. Every worldgen and fire
// parameter comes from the snapshot; cfg only supplies what it does not carry.
func ImportSnapshot(cfg WorldConfig, cats *catalogs.Catalogs, snap snapv1.SnapshotV1, opts ...Option) (*World, error) {
	if snap.Header.Version != snapv1.Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	cfg.ID = snap.Header.WorldID
	cfg.Seed = snap.Seed
	cfg.TickRateHz = snap.TickRate
	cfg.Height = snap.Height
	cfg.BoundaryR = snap.BoundaryR
	cfg.BiomeRegionSize = snap.BiomeRegionSize
	cfg.SpawnClearRadius = snap.SpawnClearRadius
	cfg.GroundLevel = snap.GroundLevel
	cfg.TerrainClusterProbScalePermille = snap.TerrainClusterProbScalePermille
	cfg.FireSpreadSteps = snap.FireSpreadSteps
	cfg.FireBurnTicks = snap.FireBurnTicks
	cfg.GameRules = map[string]bool{}
	for k, v := range snap.GameRules {
		cfg.GameRules[k] = v
	}
	cfg.Decorations = nil
	for _, d := range snap.Decorations {
		cfg.Decorations = append(cfg.Decorations, gen.Decoration{
			Name:           d.Name,
			Tag:            d.Tag,
			Kind:           gen.Kind(d.Kind),
			Attempts:       d.Attempts,
			ChancePermille: d.ChancePermille,
			Biomes:         append([]string(nil), d.Biomes...),
		})
	}

	w, err := New(cfg, cats, opts...)
	if err != nil {
		return nil, err
	}
	if snap.PaletteDigest != w.cats.Blocks.PaletteDigest {
		return nil, fmt.Errorf("snapshot palette %s does not match catalog %s", snap.PaletteDigest, w.cats.Blocks.PaletteDigest)
	}
	chunks, err := store.ImportChunks(w.worldGen(), snap.Chunks)
	if err != nil {
		return nil, err
	}
	chunks.OnDecorate = w.recordPlacements
	w.chunks = chunks
	w.tick = snap.Header.Tick

	for _, f := range snap.Fires {
		p := grid.Pos{X: int32(f.X), Y: int32(f.Y), Z: int32(f.Z)}
		b, ok := w.chunks.GetBlock(f.X, f.Y, f.Z)
		if !ok || b != w.blocks.fire {
			return nil, fmt.Errorf("snapshot fire at %s is not a fire block", p)
		}
		w.fires[p] = f.SinceTick
	}
	w.log.Info().
		Str("world", w.cfg.ID).
		Uint64("tick", w.tick).
		Int("chunks", len(snap.Chunks)).
		Int("fires", len(w.fires)).
		Msg("snapshot imported")
	return w, nil
}
