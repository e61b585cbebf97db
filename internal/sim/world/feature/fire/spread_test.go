package fire

import (
	"testing"

	"voxelfire.ai/internal/sim/rng"
	"voxelfire.ai/internal/sim/world/logic/grid"
)

type fakeGrid struct {
	disabled  bool
	solid     map[grid.Pos]bool
	flammable map[grid.Pos]grid.Direction
	ignited   []grid.Pos
	queried   []grid.Pos
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{
		solid:     map[grid.Pos]bool{},
		flammable: map[grid.Pos]grid.Direction{},
	}
}

func (f *fakeGrid) RuleEnabled(name string) bool { return name == RuleDoFireTick && !f.disabled }

func (f *fakeGrid) IsEmpty(p grid.Pos) bool {
	f.queried = append(f.queried, p)
	_, burnable := f.flammable[p]
	return !f.solid[p] && !burnable
}

func (f *fakeGrid) IsFlammable(p grid.Pos, face grid.Direction) bool {
	want, ok := f.flammable[p]
	return ok && want == face
}

func (f *fakeGrid) Ignite(p grid.Pos) { f.ignited = append(f.ignited, p) }

type countingGen struct {
	rng.Generator
	ints, floats int
}

func (c *countingGen) NextInt(bound int32) int32 {
	c.ints++
	return c.Generator.NextInt(bound)
}

func (c *countingGen) NextFloat() float32 {
	c.floats++
	return c.Generator.NextFloat()
}

// Seed 9 walks (0,0,1) (-1,0,1) (-2,0,1) (-2,0,2) from the origin.
var seed9Walk = []grid.Pos{{X: 0, Y: 0, Z: 1}, {X: -1, Y: 0, Z: 1}, {X: -2, Y: 0, Z: 1}, {X: -2, Y: 0, Z: 2}}

func TestStep_ZeroBudgetIsNoop(t *testing.T) {
	w := newFakeGrid()
	g := &countingGen{Generator: rng.NewJavaRandom(9)}
	Step(w, grid.Pos{}, g, 0)
	if g.ints != 0 || g.floats != 0 || len(w.queried) != 0 || len(w.ignited) != 0 {
		t.Fatalf("zero budget touched state: ints=%d floats=%d queried=%d ignited=%d", g.ints, g.floats, len(w.queried), len(w.ignited))
	}
}

func TestStep_NegativeBudgetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Step(newFakeGrid(), grid.Pos{}, rng.NewJavaRandom(1), -1)
}

func TestStep_RuleDisabledIsNoop(t *testing.T) {
	w := newFakeGrid()
	w.disabled = true
	w.flammable[grid.Pos{X: -2, Y: -1, Z: 1}] = grid.Up
	g := &countingGen{Generator: rng.NewJavaRandom(9)}
	Step(w, grid.Pos{}, g, 10)
	if len(w.ignited) != 0 || g.ints != 0 {
		t.Fatalf("disabled rule: ignited=%v draws=%d", w.ignited, g.ints)
	}
}

func TestStep_BoundedWalkWithoutFuel(t *testing.T) {
	for k := 0; k <= 12; k++ {
		w := newFakeGrid()
		g := &countingGen{Generator: rng.NewJavaRandom(int64(k) * 31)}
		Step(w, grid.Pos{}, g, k)
		if g.ints != k || g.floats != k {
			t.Fatalf("k=%d: direction draws=%d climb draws=%d", k, g.ints, g.floats)
		}
		if len(w.queried) > k {
			t.Fatalf("k=%d: %d cells visited", k, len(w.queried))
		}
		if len(w.ignited) != 0 {
			t.Fatalf("k=%d: ignited %v with no fuel", k, w.ignited)
		}
	}
}

func TestStep_FollowsSeededWalk(t *testing.T) {
	w := newFakeGrid()
	Step(w, grid.Pos{}, rng.NewJavaRandom(9), len(seed9Walk))
	if len(w.queried) != len(seed9Walk) {
		t.Fatalf("visited %d cells want %d", len(w.queried), len(seed9Walk))
	}
	for i, p := range seed9Walk {
		if w.queried[i] != p {
			t.Fatalf("step %d at %s want %s", i+1, w.queried[i], p)
		}
	}
}

func TestStep_BlockedAtFirstStep(t *testing.T) {
	w := newFakeGrid()
	w.solid[seed9Walk[0]] = true
	// Fuel right next to later steps must not matter.
	w.flammable[grid.Pos{X: -2, Y: -1, Z: 1}] = grid.Up
	Step(w, grid.Pos{}, rng.NewJavaRandom(9), 10)
	if len(w.queried) != 1 {
		t.Fatalf("walk continued past a solid cell: visited %v", w.queried)
	}
	if len(w.ignited) != 0 {
		t.Fatalf("blocked walk ignited %v", w.ignited)
	}
}

func TestStep_IgnitesThirdStep(t *testing.T) {
	w := newFakeGrid()
	// Only neighbour of step 3 (-2,0,1): the cell below it, reached through its top face.
	w.flammable[grid.Pos{X: -2, Y: -1, Z: 1}] = grid.Up
	Step(w, grid.Pos{}, rng.NewJavaRandom(9), 10)
	if len(w.ignited) != 1 {
		t.Fatalf("ignited %d cells want 1: %v", len(w.ignited), w.ignited)
	}
	if w.ignited[0] != seed9Walk[2] {
		t.Fatalf("ignited %s want %s", w.ignited[0], seed9Walk[2])
	}
	if len(w.queried) != 3 {
		t.Fatalf("walk did not stop at ignition: visited %d", len(w.queried))
	}
}

func TestStep_WrongFaceDoesNotIgnite(t *testing.T) {
	w := newFakeGrid()
	// Same block, but it only burns from below.
	w.flammable[grid.Pos{X: -2, Y: -1, Z: 1}] = grid.Down
	Step(w, grid.Pos{}, rng.NewJavaRandom(9), len(seed9Walk))
	if len(w.ignited) != 0 {
		t.Fatalf("ignited %v through the wrong face", w.ignited)
	}
}

func TestStep_SameSeedSameOutcome(t *testing.T) {
	run := func() []grid.Pos {
		w := newFakeGrid()
		w.flammable[grid.Pos{X: 3, Y: 0, Z: 3}] = grid.West
		w.flammable[grid.Pos{X: -3, Y: 1, Z: 0}] = grid.East
		Step(w, grid.Pos{}, rng.NewJavaRandom(77), 64)
		return append(w.queried, w.ignited...)
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs diverged: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs diverged at %d: %v vs %v", i, a, b)
		}
	}
}

func TestHasFlammableNeighbours_ChecksEveryFace(t *testing.T) {
	center := grid.Pos{X: 5, Y: 5, Z: 5}
	for _, d := range grid.All {
		w := newFakeGrid()
		w.flammable[center.Relative(d)] = d.Opposite()
		if !HasFlammableNeighbours(w, center) {
			t.Fatalf("missed fuel on the %s side", d)
		}
	}
	if HasFlammableNeighbours(newFakeGrid(), center) {
		t.Fatalf("empty grid reported fuel")
	}
}
