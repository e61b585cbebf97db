package world

import (
	"strings"

	"voxelfire.ai/internal/sim/tuning"
	"voxelfire.ai/internal/sim/world/feature/fire"
	"voxelfire.ai/internal/sim/world/terrain/gen"
)

// TagFireSpread is the decoration value mixed with the tick to seed the
// per-tick fire generator. Worldgen decorations use small positive tags, so
// this stays out of their way.
const TagFireSpread int32 = 0x0F1E

type WorldConfig struct {
	ID         string
	TickRateHz int
	Height     int
	Seed       int64
	BoundaryR  int

	BiomeRegionSize                 int
	SpawnClearRadius                int
	GroundLevel                     int
	TerrainClusterProbScalePermille int

	SnapshotEveryTicks int

	// Snapshots carry these so replay and resume match a continuous run.
	FireSpreadSteps int
	FireBurnTicks   int
	GameRules       map[string]bool
	Decorations     []gen.Decoration
}

// ConfigFromTuning builds a world config for seed from a tuning file.
func ConfigFromTuning(id string, seed int64, t tuning.Tuning) WorldConfig {
	cfg := WorldConfig{
		ID:                              id,
		TickRateHz:                      t.TickRateHz,
		Height:                          t.Height,
		Seed:                            seed,
		BoundaryR:                       t.WorldBoundaryR,
		BiomeRegionSize:                 t.WorldGen.BiomeRegionSize,
		SpawnClearRadius:                t.WorldGen.SpawnClearRadius,
		GroundLevel:                     t.WorldGen.GroundLevel,
		TerrainClusterProbScalePermille: t.WorldGen.TerrainClusterProbScalePermille,
		SnapshotEveryTicks:              t.SnapshotEveryTicks,
		FireSpreadSteps:                 t.FireSpreadSteps,
		FireBurnTicks:                   t.FireBurnTicks,
		GameRules:                       map[string]bool{},
	}
	for k, v := range t.GameRules {
		cfg.GameRules[k] = v
	}
	for _, d := range t.Decorations {
		cfg.Decorations = append(cfg.Decorations, gen.Decoration{
			Name:           d.Name,
			Tag:            d.Tag,
			Kind:           gen.Kind(strings.ToUpper(d.Kind)),
			Attempts:       d.AttemptsPerChunk,
			ChancePermille: d.ChancePermille,
			Biomes:         append([]string(nil), d.Biomes...),
		})
	}
	return cfg
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 20
	}
	if c.Height <= 0 {
		c.Height = 64
	}
	if c.BiomeRegionSize <= 0 {
		c.BiomeRegionSize = 64
	}
	if c.GroundLevel <= 0 || c.GroundLevel >= c.Height {
		c.GroundLevel = c.Height / 4
	}
	if c.TerrainClusterProbScalePermille <= 0 {
		c.TerrainClusterProbScalePermille = 1000
	}
	if c.SnapshotEveryTicks < 0 {
		c.SnapshotEveryTicks = 0
	}
	if c.FireSpreadSteps < 0 {
		c.FireSpreadSteps = 0
	}
	if c.FireBurnTicks < 0 {
		c.FireBurnTicks = 0
	}
	if c.GameRules == nil {
		c.GameRules = map[string]bool{fire.RuleDoFireTick: true}
	}
}
