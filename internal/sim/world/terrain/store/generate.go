package store

import genpkg "voxelfire.ai/internal/sim/world/terrain/gen"

// GenerateChunk fills base terrain and then runs the decoration pass.
func (s *ChunkStore) GenerateChunk(ch *Chunk) {
	g := s.Gen
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			wx := ch.CX*ChunkSize + x
			wz := ch.CZ*ChunkSize + z

			surface := genpkg.SurfaceHeight(g.Seed, wx, wz, g.GroundLevel, ch.H)
			if genpkg.WithinSpawnClear(wx, wz, g.SpawnClearRadius) {
				surface = g.GroundLevel
			}
			top := s.topBlock(wx, wz)
			for y := 0; y < surface && y < ch.H; y++ {
				b := g.Stone
				switch {
				case y == surface-1:
					b = top
				case y >= surface-3:
					b = g.Dirt
					if top == g.Sand {
						b = g.Sand
					}
				}
				ch.Blocks[ch.index(x, y, z)] = b
			}
		}
	}

	if g.Decorator == nil {
		return
	}
	placements := g.Decorator.Decorate(ch, s.rand, ch.CX, ch.CZ)
	if s.OnDecorate != nil {
		s.OnDecorate(placements)
	}
}

func (s *ChunkStore) topBlock(wx, wz int) uint16 {
	g := s.Gen
	if genpkg.WithinSpawnClear(wx, wz, g.SpawnClearRadius) {
		return g.Grass
	}
	biome := genpkg.BiomeAt(g.Seed, wx, wz, g.BiomeRegionSize)
	scale := g.TerrainClusterProbScalePermille
	switch biome {
	case genpkg.BiomeDesert:
		if genpkg.InCluster(g.Seed+302, wx, wz, 32, 4, genpkg.ScalePermille(450, scale)) {
			return g.Stone
		}
		return g.Sand
	case genpkg.BiomeForest:
		if genpkg.InCluster(g.Seed+203, wx, wz, 48, 3, genpkg.ScalePermille(350, scale)) {
			return g.Dirt
		}
		return g.Grass
	default:
		switch {
		case genpkg.InCluster(g.Seed+402, wx, wz, 32, 4, genpkg.ScalePermille(500, scale)):
			return g.Stone
		case genpkg.InCluster(g.Seed+403, wx, wz, 96, 2, genpkg.ScalePermille(180, scale)):
			return g.Gravel
		}
		return g.Grass
	}
}
