package trigram

import (
	"math/rand"
	"testing"
)

func TestHash_KnownValue(t *testing.T) {
	// fnv-1a over code points "abc" = 0x1a47e90b
	rs := []rune("abc")
	if got := Hash(rs, 0, 1<<31); got != int(uint32(0x1a47e90b)%(1<<31)) {
		t.Fatalf("Hash(abc) = %d, want %d", got, uint32(0x1a47e90b)%(1<<31))
	}
	if got := Hash(rs, 0, 4096); got != int(uint32(0x1a47e90b)%4096) {
		t.Fatalf("Hash(abc, 4096) = %d, want %d", got, uint32(0x1a47e90b)%4096)
	}
}

func TestHash_AlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dims := []int{1, 2, 3, 17, 4096, 65521}
	for _, dim := range dims {
		for i := 0; i < 2000; i++ {
			rs := make([]rune, 3+rng.Intn(8))
			for j := range rs {
				rs[j] = rune(rng.Intn(0x10FFFF))
			}
			start := rng.Intn(len(rs) - 2)
			got := Hash(rs, start, dim)
			if got < 0 || got >= dim {
				t.Fatalf("Hash(%v, %d, %d) = %d out of range", rs, start, dim, got)
			}
		}
	}
}

func TestHash_CodePointsNotBytes(t *testing.T) {
	// the same three runes must hash identically regardless of their byte width
	a := Hash([]rune("日本語"), 0, 1<<20)
	b := Hash([]rune("x日本語")[1:], 0, 1<<20)
	if a != b {
		t.Fatalf("hash depends on offset: %d vs %d", a, b)
	}
}

func TestWindows(t *testing.T) {
	cases := []struct {
		n, max, want int
	}{
		{0, 200, 0},
		{2, 200, 0},
		{3, 200, 1},
		{10, 200, 8},
		{500, 200, 198},
		{200, 200, 198},
	}
	for _, c := range cases {
		if got := Windows(c.n, c.max); got != c.want {
			t.Fatalf("Windows(%d, %d) = %d, want %d", c.n, c.max, got, c.want)
		}
	}
}

func TestEach_RespectsMaxChars(t *testing.T) {
	rs := make([]rune, 1000)
	for i := range rs {
		rs[i] = 'a' + rune(i%26)
	}
	calls := 0
	Each(rs, 200, 4096, func(b int) {
		if b < 0 || b >= 4096 {
			t.Fatalf("bucket %d out of range", b)
		}
		calls++
	})
	if calls != 198 {
		t.Fatalf("Each visited %d windows, want 198", calls)
	}
}
