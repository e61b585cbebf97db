// Package rng holds the generator contract shared by the seeding and
// propagation code, plus a bit-exact port of the 48-bit Java LCG.
package rng

// Generator is a mutable pseudo-random state owned by the caller.
// Implementations are not safe for concurrent use.
type Generator interface {
	SetSeed(seed int64)
	NextInt64() int64
	// NextFloat returns a value in [0, 1).
	NextFloat() float32
	// NextInt returns a value in [0, bound). bound must be positive.
	NextInt(bound int32) int32
}

const (
	multiplier = 0x5DEECE66D
	increment  = 0xB
	mask48     = (1 << 48) - 1
)

// JavaRandom reproduces java.util.Random so worlds generated by the host
// simulation keep bit-exact parity.
// Not safe for concurrent use.
type JavaRandom struct {
	seed int64
}

func NewJavaRandom(seed int64) *JavaRandom {
	r := &JavaRandom{}
	r.SetSeed(seed)
	return r
}

func scramble(seed int64) int64 {
	return (seed ^ multiplier) & mask48
}

func (r *JavaRandom) SetSeed(seed int64) {
	r.seed = scramble(seed)
}

// Next advances the state and returns the top bits (1..32) of it.
func (r *JavaRandom) Next(bits int) int32 {
	r.seed = (r.seed*multiplier + increment) & mask48
	return int32(r.seed >> (48 - bits))
}

func (r *JavaRandom) NextInt64() int64 {
	hi := int64(r.Next(32)) << 32
	return hi + int64(r.Next(32))
}

func (r *JavaRandom) NextFloat() float32 {
	return float32(r.Next(24)) / float32(1<<24)
}

func (r *JavaRandom) NextInt(bound int32) int32 {
	if bound <= 0 {
		panic("rng: NextInt bound must be positive")
	}
	v := r.Next(31)
	m := bound - 1
	if bound&m == 0 {
		return int32((int64(bound) * int64(v)) >> 31)
	}
	// Reject the tail that would bias the modulo; the int32 overflow is the
	// rejection signal.
	for u := v; ; u = r.Next(31) {
		v = u % bound
		if u-v+m >= 0 {
			return v
		}
	}
}
