// Package domain defines the core types and interfaces for the evaluate service
package domain

import (
	"math"

	"hashjudge/internal/core/judge"
	"hashjudge/internal/core/scorer"
)

// Row is one raw dataset record; nothing is validated yet
type Row struct {
	Text  string
	Label string
}

// Sample is a row that passed label and text validation
type Sample struct {
	Label      judge.Verdict // AI or Human
	Text       string        // raw, feeds the language heuristic
	Normalized string        // non-empty
}

// Confusion holds one counter per legal (ground truth, prediction) cell
type Confusion struct {
	AIAI         int64
	AIHuman      int64
	AIUnknown    int64
	HumanAI      int64
	HumanHuman   int64
	HumanUnknown int64
}

// Add increments the cell for (truth, pred); truth must be AI or Human
func (c *Confusion) Add(truth, pred judge.Verdict) {
	if p := c.cell(truth, pred); p != nil {
		*p++
	}
}

// Get returns the counter for (truth, pred), 0 for illegal cells
func (c Confusion) Get(truth, pred judge.Verdict) int64 {
	if p := c.cell(truth, pred); p != nil {
		return *p
	}
	return 0
}

func (c *Confusion) cell(truth, pred judge.Verdict) *int64 {
	switch truth {
	case judge.AI:
		switch pred {
		case judge.AI:
			return &c.AIAI
		case judge.Human:
			return &c.AIHuman
		default:
			return &c.AIUnknown
		}
	case judge.Human:
		switch pred {
		case judge.AI:
			return &c.HumanAI
		case judge.Human:
			return &c.HumanHuman
		default:
			return &c.HumanUnknown
		}
	}
	return nil
}

// Merge adds o cell by cell
func (c *Confusion) Merge(o Confusion) {
	c.AIAI += o.AIAI
	c.AIHuman += o.AIHuman
	c.AIUnknown += o.AIUnknown
	c.HumanAI += o.HumanAI
	c.HumanHuman += o.HumanHuman
	c.HumanUnknown += o.HumanUnknown
}

// Truth returns how many rows carried the given ground-truth label
func (c Confusion) Truth(v judge.Verdict) int64 {
	return c.Get(v, judge.AI) + c.Get(v, judge.Human) + c.Get(v, judge.Unknown)
}

// Predicted returns how many rows were classified as v
func (c Confusion) Predicted(v judge.Verdict) int64 {
	return c.Get(judge.AI, v) + c.Get(judge.Human, v)
}

// scoreScale is the fixed-point resolution of Partial.ScoreNanos
const scoreScale = 1e9

// Partial is a batch-level tally; all fields are additive
// Scores are summed as fixed-point integers so Merge is exact in any order.
type Partial struct {
	Total          int64
	Correct        int64
	Decided        int64
	DecidedCorrect int64
	ScoreNanos     int64
	Confusion      Confusion

	JPRows       int64
	JPCorrect    int64
	NonJPRows    int64
	NonJPCorrect int64
}

// Add folds one classified sample into the tally
func (p *Partial) Add(truth judge.Verdict, r scorer.Result) {
	p.Total++
	p.ScoreNanos += int64(math.Round(r.Score * scoreScale))

	correct := r.Verdict == truth
	if correct {
		p.Correct++
	}
	if r.Verdict != judge.Unknown {
		p.Decided++
		if correct {
			p.DecidedCorrect++
		}
	}
	p.Confusion.Add(truth, r.Verdict)

	if r.Japanese {
		p.JPRows++
		if correct {
			p.JPCorrect++
		}
	} else {
		p.NonJPRows++
		if correct {
			p.NonJPCorrect++
		}
	}
}

// Merge adds o field by field; commutative and associative
func (p *Partial) Merge(o Partial) {
	p.Total += o.Total
	p.Correct += o.Correct
	p.Decided += o.Decided
	p.DecidedCorrect += o.DecidedCorrect
	p.ScoreNanos += o.ScoreNanos
	p.Confusion.Merge(o.Confusion)
	p.JPRows += o.JPRows
	p.JPCorrect += o.JPCorrect
	p.NonJPRows += o.NonJPRows
	p.NonJPCorrect += o.NonJPCorrect
}

// ScoreSum returns the summed scores as a float
func (p Partial) ScoreSum() float64 { return float64(p.ScoreNanos) / scoreScale }

// State is the evaluation accumulator; only the controller goroutine writes it
type State struct {
	Partial
	Skipped int64
	Batches int64
}
