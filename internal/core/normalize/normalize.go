// Package normalize provides the deterministic text normalizer applied before trigram hashing
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Lowercase (language neutral, full Unicode special casing)
// 3 Collapse every whitespace run (NBSP included) to a single ASCII space and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of lowercasers; a cases.Caser carries state and must not be shared
var casePool = sync.Pool{
	New: func() any {
		return cases.Lower(language.Und)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the normalized form of s following the pipeline described above
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2 lowercase via pooled caser then reset and return it
	c := casePool.Get().(cases.Caser)
	ls, _, err := transform.String(c, s)
	c.Reset()
	casePool.Put(c)
	if err != nil {
		ls = strings.ToLower(s)
	}

	// 3 collapse whitespace and trim
	return collapseSpaces(ls)
}

// Text is a convenience wrapper over a shared Normalizer
func Text(s string) string { return shared.Normalize(s) }

var shared = New()

// collapseSpaces converts every whitespace run to a single ASCII space and trims both edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
