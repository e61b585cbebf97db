package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz         int `yaml:"tick_rate_hz"`
	Height             int `yaml:"height"`
	WorldBoundaryR     int `yaml:"world_boundary_r"`
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`

	// FireSpreadSteps is the walk budget handed to each burning cell per tick.
	FireSpreadSteps int `yaml:"fire_spread_steps"`
	// FireBurnTicks is how long a fire cell lives before burning out; 0 keeps it forever.
	FireBurnTicks int `yaml:"fire_burn_ticks"`

	GameRules   map[string]bool  `yaml:"game_rules"`
	WorldGen    WorldGen         `yaml:"worldgen"`
	Decorations []DecorationSpec `yaml:"decorations"`
}

type WorldGen struct {
	BiomeRegionSize                 int `yaml:"biome_region_size"`
	SpawnClearRadius                int `yaml:"spawn_clear_radius"`
	GroundLevel                     int `yaml:"ground_level"`
	TerrainClusterProbScalePermille int `yaml:"terrain_cluster_prob_scale_permille"`
}

// DecorationSpec is one kind of feature scattered over every chunk. Tag keeps
// kinds decorrelated from each other when they share attempt indices.
type DecorationSpec struct {
	Name             string   `yaml:"name"`
	Tag              int32    `yaml:"tag"`
	Kind             string   `yaml:"kind"` // TREE, BRUSH, BOULDER
	AttemptsPerChunk int      `yaml:"attempts_per_chunk"`
	ChancePermille   int      `yaml:"chance_permille"`
	Biomes           []string `yaml:"biomes,omitempty"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:         20,
		Height:             64,
		WorldBoundaryR:     512,
		SnapshotEveryTicks: 200,
		FireSpreadSteps:    3,
		FireBurnTicks:      40,
		GameRules:          map[string]bool{"doFireTick": true},
		WorldGen: WorldGen{
			BiomeRegionSize:                 64,
			SpawnClearRadius:                0,
			GroundLevel:                     16,
			TerrainClusterProbScalePermille: 1000,
		},
		Decorations: []DecorationSpec{
			{Name: "trees", Tag: 1, Kind: "TREE", AttemptsPerChunk: 6, ChancePermille: 400, Biomes: []string{"FOREST", "PLAINS"}},
			{Name: "brush", Tag: 2, Kind: "BRUSH", AttemptsPerChunk: 10, ChancePermille: 500},
			{Name: "boulders", Tag: 3, Kind: "BOULDER", AttemptsPerChunk: 2, ChancePermille: 250},
		},
	}
}

// Load reads a tuning file on top of Defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.Height <= 0 || t.Height > 4096 {
		return fmt.Errorf("height out of range: %d", t.Height)
	}
	if t.FireSpreadSteps < 0 {
		return fmt.Errorf("fire_spread_steps must be >= 0, got %d", t.FireSpreadSteps)
	}
	if t.FireBurnTicks < 0 {
		return fmt.Errorf("fire_burn_ticks must be >= 0, got %d", t.FireBurnTicks)
	}
	if t.WorldGen.GroundLevel < 0 || t.WorldGen.GroundLevel >= t.Height {
		return fmt.Errorf("worldgen.ground_level %d outside [0,%d)", t.WorldGen.GroundLevel, t.Height)
	}
	tags := map[int32]string{}
	for _, d := range t.Decorations {
		switch strings.ToUpper(d.Kind) {
		case "TREE", "BRUSH", "BOULDER":
		default:
			return fmt.Errorf("decoration %q: unknown kind %q", d.Name, d.Kind)
		}
		if prev, ok := tags[d.Tag]; ok {
			return fmt.Errorf("decoration %q: tag %d already used by %q", d.Name, d.Tag, prev)
		}
		tags[d.Tag] = d.Name
		if d.AttemptsPerChunk < 0 || d.ChancePermille < 0 || d.ChancePermille > 1000 {
			return fmt.Errorf("decoration %q: bad attempts/chance", d.Name)
		}
	}
	return nil
}
