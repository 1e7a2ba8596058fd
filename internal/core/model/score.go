package model

import (
	"math"

	"hashjudge/internal/core/trigram"
)

// Neutral is returned for text too short to hold a single trigram
const Neutral = 0.5

// Score returns P(AI) for already normalized text
func (m *Model) Score(normalized string) float64 {
	return m.ScoreRunes([]rune(normalized))
}

// ScoreRunes is Score over a pre-split rune slice
func (m *Model) ScoreRunes(rs []rune) float64 {
	if len(rs) < trigram.Width {
		return Neutral
	}
	switch p := m.Params.(type) {
	case *NaiveBayes:
		return Sigmoid(p.logit(rs, m.MaxChars, m.Dim))
	case *Logistic:
		return Sigmoid(p.logit(rs, m.MaxChars, m.Dim))
	default:
		panic("model: unsupported params type")
	}
}

// repeated trigrams each contribute their delta
func (p *NaiveBayes) logit(rs []rune, maxChars, dim int) float64 {
	logit := p.PriorLogit
	trigram.Each(rs, maxChars, dim, func(b int) {
		logit += p.Delta[b]
	})
	return logit
}

// bucket counts are divided by the window count before weighting
// buckets are summed in first-occurrence order so the float result is reproducible
func (p *Logistic) logit(rs []rune, maxChars, dim int) float64 {
	windows := trigram.Windows(len(rs), maxChars)
	total := windows
	if total < 1 {
		total = 1
	}
	counts := make(map[int]int, windows)
	order := make([]int, 0, windows)
	trigram.Each(rs, maxChars, dim, func(b int) {
		if counts[b] == 0 {
			order = append(order, b)
		}
		counts[b]++
	})
	logit := p.Bias
	for _, b := range order {
		logit += p.Weights[b] * (float64(counts[b]) / float64(total))
	}
	return logit
}

// Sigmoid is the overflow-safe logistic function
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	z := math.Exp(x)
	return z / (1 + z)
}
