package catalogs

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"voxelfire.ai/internal/sim/world/logic/grid"
)

const (
	BlockAir  = "AIR"
	BlockFire = "FIRE"
)

type Catalogs struct {
	Blocks BlockCatalog
	// Source names where the catalog was resolved from.
	Source string
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string

	// faces[id] has bit d set when palette id burns from face d.
	faces []uint8
}

type BlockDef struct {
	ID        string `json:"id"`
	Solid     bool   `json:"solid"`
	Flammable bool   `json:"flammable,omitempty"`
	// IgniteFaces limits which faces catch fire; empty means all six and
	// "sides" stands for the four horizontal faces.
	IgniteFaces []string `json:"ignite_faces,omitempty"`
}

// Load reads <configDir>/blocks.json.
func Load(configDir string) (*Catalogs, error) {
	return Resolve(DirSource{Dir: configDir, Strict: true})
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func parseBlocks(raw []byte, out *BlockCatalog) error {
	if err := validateBlocks(raw); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("blocks.json: duplicate id %s", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// AIR is palette id 0 so zeroed chunks read as empty.
	if _, ok := out.Defs[BlockAir]; !ok {
		return fmt.Errorf("blocks.json: missing %s", BlockAir)
	}
	if _, ok := out.Defs[BlockFire]; !ok {
		return fmt.Errorf("blocks.json: missing %s", BlockFire)
	}
	ids = append([]string{BlockAir}, filterOut(ids, BlockAir)...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	out.faces = make([]uint8, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
		mask, err := faceMask(out.Defs[id])
		if err != nil {
			return fmt.Errorf("blocks.json: %s: %w", id, err)
		}
		out.faces[i] = mask
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

const faceSides = "sides"

func faceMask(d BlockDef) (uint8, error) {
	if !d.Flammable {
		return 0, nil
	}
	if len(d.IgniteFaces) == 0 {
		return 0x3f, nil
	}
	var m uint8
	for _, f := range d.IgniteFaces {
		if f == faceSides {
			for _, dir := range grid.All {
				if dir.Horizontal() {
					m |= 1 << dir
				}
			}
			continue
		}
		dir, ok := grid.ParseDirection(f)
		if !ok {
			return 0, fmt.Errorf("bad ignite face %q", f)
		}
		m |= 1 << dir
	}
	return m, nil
}

func filterOut(ids []string, drop string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func (c *BlockCatalog) ID(name string) (uint16, bool) {
	id, ok := c.Index[name]
	return id, ok
}

// MustID is for block names the catalog loader guarantees (AIR, FIRE).
func (c *BlockCatalog) MustID(name string) uint16 {
	id, ok := c.Index[name]
	if !ok {
		panic("catalogs: unknown block " + name)
	}
	return id
}

// FlammableFrom reports whether palette id catches fire through face.
// Unknown ids never burn.
func (c *BlockCatalog) FlammableFrom(id uint16, face grid.Direction) bool {
	if int(id) >= len(c.faces) {
		return false
	}
	return c.faces[id]&(1<<face) != 0
}
