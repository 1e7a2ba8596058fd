// Package langhint provides coarse script detection and the likely-Japanese routing heuristic
package langhint

import (
	"unicode"
)

// Heuristic holds the likely-Japanese cut points
// The constants are empirically tuned; keep them configurable rather than derived
type Heuristic struct {
	// SampleRunes bounds how much of the raw text is inspected
	SampleRunes int
	// MinCount alone is decisive
	MinCount int
	// MinSoftCount together with MinRatio is decisive
	MinSoftCount int
	MinRatio     float64
}

// DefaultHeuristic returns the 2400 / 40 / 8 / 0.03 tuning
func DefaultHeuristic() Heuristic {
	return Heuristic{
		SampleRunes:  2400,
		MinCount:     40,
		MinSoftCount: 8,
		MinRatio:     0.03,
	}
}

// IsJapaneseRune reports whether r falls in Hiragana/Katakana (U+3040..U+30FF) or CJK (U+4E00..U+9FFF)
func IsJapaneseRune(r rune) bool {
	return (r >= 0x3040 && r <= 0x30FF) || (r >= 0x4E00 && r <= 0x9FFF)
}

// Count returns the number of Japanese-range runes and the sample length, both in runes
func (h Heuristic) Count(s string) (jp, sample int) {
	for _, r := range s {
		if h.SampleRunes > 0 && sample >= h.SampleRunes {
			break
		}
		sample++
		if IsJapaneseRune(r) {
			jp++
		}
	}
	return jp, sample
}

// LikelyJapanese applies the count/ratio rule to the raw (not normalized) text
func (h Heuristic) LikelyJapanese(s string) bool {
	jp, sample := h.Count(s)
	if sample == 0 {
		return false
	}
	if jp >= h.MinCount {
		return true
	}
	return jp >= h.MinSoftCount && float64(jp)/float64(sample) >= h.MinRatio
}

// script is one counted writing system; order breaks ties and lang is only
// assigned when the script points at a single language
type script struct {
	name  string
	table *unicode.RangeTable
	lang  string
}

var scripts = []script{
	{"Hiragana", unicode.Hiragana, "ja"},
	{"Katakana", unicode.Katakana, "ja"},
	{"Hangul", unicode.Hangul, "ko"},
	{"Han", unicode.Han, ""}, // zh or ja
	{"Arabic", unicode.Arabic, "ar"},
	{"Hebrew", unicode.Hebrew, "he"},
	{"Thai", unicode.Thai, "th"},
	{"Greek", unicode.Greek, "el"},
	{"Cyrillic", unicode.Cyrillic, ""},
	{"Latin", unicode.Latin, ""},
}

// minLetters is the letter count below which no lang is guessed
const minLetters = 20

// DetectScriptAndLang returns the predominant script name and, for texts with
// enough letters, a BCP-47 lang code when some present script maps to one
func DetectScriptAndLang(s string) (name string, lang string) {
	counts := make([]int, len(scripts))
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		for i := range scripts {
			if unicode.Is(scripts[i].table, r) {
				counts[i]++
				break
			}
		}
	}

	best := -1
	for i, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = i
		}
	}
	if best >= 0 {
		name = scripts[best].name
	}

	if letters < minLetters {
		return name, ""
	}
	// first present script with a language wins, so kana beats Han
	for i, n := range counts {
		if n > 0 && scripts[i].lang != "" {
			return name, scripts[i].lang
		}
	}
	return name, ""
}
