package grid

import "testing"

func TestExcludingSubsets_AreCompleteAndDistinct(t *testing.T) {
	want := map[Direction][5]Direction{
		Up:    {Down, North, South, East, West},
		Down:  {Up, North, South, East, West},
		North: {Up, Down, South, East, West},
		South: {Up, Down, North, East, West},
		East:  {Up, Down, North, South, West},
		West:  {Up, Down, North, South, East},
	}
	for _, excluded := range All {
		got := Excluding(excluded)
		if got != want[excluded] {
			t.Fatalf("Excluding(%s)=%v want %v", excluded, got, want[excluded])
		}
		seen := map[Direction]bool{}
		for _, d := range got {
			if d == excluded {
				t.Fatalf("Excluding(%s) contains %s", excluded, d)
			}
			if seen[d] {
				t.Fatalf("Excluding(%s) has duplicate %s", excluded, d)
			}
			seen[d] = true
		}
		if len(seen) != 5 {
			t.Fatalf("Excluding(%s) has %d distinct directions, want 5", excluded, len(seen))
		}
	}
}

func TestOpposite(t *testing.T) {
	pairs := [][2]Direction{{Down, Up}, {North, South}, {West, East}}
	for _, p := range pairs {
		if p[0].Opposite() != p[1] || p[1].Opposite() != p[0] {
			t.Fatalf("opposite mismatch for %s/%s", p[0], p[1])
		}
	}
	for _, d := range All {
		if d.Offset().Add(d.Opposite().Offset()) != (Pos{}) {
			t.Fatalf("offsets of %s and its opposite do not cancel", d)
		}
	}
}

func TestHorizontalPlane(t *testing.T) {
	for _, d := range Horizontal {
		if !d.Horizontal() || d.Offset().Y != 0 {
			t.Fatalf("%s is not horizontal", d)
		}
	}
	if Up.Horizontal() || Down.Horizontal() {
		t.Fatalf("vertical directions reported horizontal")
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range All {
		got, ok := ParseDirection(" " + d.String() + " ")
		if !ok || got != d {
			t.Fatalf("ParseDirection(%q)=%v,%v", d.String(), got, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Fatalf("expected sideways to be rejected")
	}
}
