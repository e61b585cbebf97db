package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
)

// StateDigest hashes everything that affects future ticks: the tick, seed,
// rules, decorations, loaded chunks and burning cells.
func (w *World) StateDigest() string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, w.tick)
	digestWriteI64(h, &tmp, w.cfg.Seed)
	digestWriteU64(h, &tmp, uint64(w.cfg.FireSpreadSteps))
	digestWriteU64(h, &tmp, uint64(w.cfg.FireBurnTicks))

	rules := make([]string, 0, len(w.cfg.GameRules))
	for k := range w.cfg.GameRules {
		rules = append(rules, k)
	}
	sort.Strings(rules)
	for _, k := range rules {
		h.Write([]byte(k))
		h.Write([]byte{boolByte(w.cfg.GameRules[k])})
	}

	for _, d := range w.cfg.Decorations {
		h.Write([]byte(d.Name))
		h.Write([]byte{0})
		h.Write([]byte(d.Kind))
		h.Write([]byte{0})
		digestWriteI64(h, &tmp, int64(d.Tag))
		digestWriteI64(h, &tmp, int64(d.Attempts))
		digestWriteI64(h, &tmp, int64(d.ChancePermille))
		for _, b := range d.Biomes {
			h.Write([]byte(b))
			h.Write([]byte{0})
		}
		h.Write([]byte{0xff})
	}

	for _, k := range w.chunks.LoadedChunkKeys() {
		d := w.chunks.Chunks[k].Digest()
		digestWriteI64(h, &tmp, int64(k.CX))
		digestWriteI64(h, &tmp, int64(k.CZ))
		h.Write(d[:])
	}

	for _, p := range w.FireCells() {
		digestWriteI64(h, &tmp, int64(p.X))
		digestWriteI64(h, &tmp, int64(p.Y))
		digestWriteI64(h, &tmp, int64(p.Z))
		digestWriteU64(h, &tmp, w.fires[p])
	}
	return hex.EncodeToString(h.Sum(nil))
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
