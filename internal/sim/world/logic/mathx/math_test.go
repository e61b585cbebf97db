package mathx

import "testing"

func TestFloorDivMod_Negative(t *testing.T) {
	cases := []struct{ a, b, q, m int }{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
	}
	for _, c := range cases {
		if q := FloorDiv(c.a, c.b); q != c.q {
			t.Fatalf("FloorDiv(%d,%d)=%d want %d", c.a, c.b, q, c.q)
		}
		if m := Mod(c.a, c.b); m != c.m {
			t.Fatalf("Mod(%d,%d)=%d want %d", c.a, c.b, m, c.m)
		}
	}
}

func TestQuartToBlock(t *testing.T) {
	x, y, z := QuartToBlock(1, -2, 3)
	if x != 4 || y != -8 || z != 12 {
		t.Fatalf("QuartToBlock=(%d,%d,%d) want (4,-8,12)", x, y, z)
	}
}

func TestHash_SeedSensitive(t *testing.T) {
	if Hash2(1, 5, 5) == Hash2(2, 5, 5) {
		t.Fatalf("Hash2 ignores seed")
	}
}
