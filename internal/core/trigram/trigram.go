// Package trigram maps 3-rune windows of normalized text onto a bounded bucket space
package trigram

const (
	offset32 uint32 = 2166136261
	prime32  uint32 = 16777619

	// Width is the number of runes folded into one feature
	Width = 3
)

// Hash folds the three runes starting at start into a bucket in [0, dim)
// The caller guarantees start+Width <= len(rs) and dim > 0
func Hash(rs []rune, start, dim int) int {
	h := offset32
	for i := 0; i < Width; i++ {
		h ^= uint32(rs[start+i])
		h *= prime32
	}
	return int(h % uint32(dim))
}

// Windows returns how many full windows fit in the first maxChars runes of an n-rune text
func Windows(n, maxChars int) int {
	limit := n
	if maxChars < limit {
		limit = maxChars
	}
	if limit < Width {
		return 0
	}
	return limit - (Width - 1)
}

// Each calls fn with the bucket of every window inside the first maxChars runes
func Each(rs []rune, maxChars, dim int, fn func(bucket int)) {
	w := Windows(len(rs), maxChars)
	for i := 0; i < w; i++ {
		fn(Hash(rs, i, dim))
	}
}
