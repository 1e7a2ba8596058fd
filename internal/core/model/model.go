// Package model holds the hashed-trigram scoring models and their JSON loader
package model

import (
	"hashjudge/internal/core/judge"
	perr "hashjudge/internal/platform/errors"
)

// Kind tags the model family
type Kind uint8

const (
	// NaiveBayesHash3 is an additive bag-of-hashed-trigrams log-odds model
	NaiveBayesHash3 Kind = iota + 1
	// LogisticHash3 is a logistic model over normalized hashed-trigram frequencies
	LogisticHash3
)

// Wire names for Kind
const (
	TypeNaiveBayesHash3 = "naive_bayes_hash3"
	TypeLogisticHash3   = "logistic_hash3"
)

// Model defaults applied at load time
const (
	DefaultName     = "hash_model"
	DefaultMaxChars = 1200
	MinMaxChars     = 200
)

func (k Kind) String() string {
	switch k {
	case NaiveBayesHash3:
		return TypeNaiveBayesHash3
	case LogisticHash3:
		return TypeLogisticHash3
	default:
		return "unknown"
	}
}

// ParseKind maps a wire type; empty selects NaiveBayesHash3
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", TypeNaiveBayesHash3:
		return NaiveBayesHash3, nil
	case TypeLogisticHash3:
		return LogisticHash3, nil
	default:
		return 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown model type %q", s), "type")
	}
}

// Params is the per-family parameter block; implemented only by *NaiveBayes and *Logistic
type Params interface {
	Kind() Kind
	size() int
}

// NaiveBayes parameters: logit = PriorLogit + sum(Delta[bucket]) over every window
type NaiveBayes struct {
	PriorLogit float64
	Delta      []float64
}

// Kind implements Params
func (*NaiveBayes) Kind() Kind { return NaiveBayesHash3 }

func (p *NaiveBayes) size() int { return len(p.Delta) }

// Logistic parameters: logit = Bias + sum(Weights[b] * count[b]/windows)
type Logistic struct {
	Bias    float64
	Weights []float64
}

// Kind implements Params
func (*Logistic) Kind() Kind { return LogisticHash3 }

func (p *Logistic) size() int { return len(p.Weights) }

// Model is immutable once loaded and safe to share across goroutines
type Model struct {
	Name       string
	Dim        int
	MaxChars   int // scoring cutoff, never below MinMaxChars
	Thresholds judge.Thresholds
	Params     Params

	// DeclaredMaxChars is max_chars as written in the file, echoed in summaries
	DeclaredMaxChars int
}

// Kind reports the family of the loaded parameters
func (m *Model) Kind() Kind {
	if m == nil || m.Params == nil {
		return 0
	}
	return m.Params.Kind()
}

// Meta is the small descriptor echoed into summaries and API responses
type Meta struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Dim      int    `json:"dim" yaml:"dim"`
	MaxChars int    `json:"max_chars" yaml:"max_chars"`
}

// Meta returns the model descriptor
func (m *Model) Meta() Meta {
	return Meta{Name: m.Name, Type: m.Kind().String(), Dim: m.Dim, MaxChars: m.DeclaredMaxChars}
}

// New assembles and checks a model from already decoded parts
func New(name string, dim, maxChars int, th judge.Thresholds, p Params) (*Model, error) {
	m := &Model{
		Name:       name,
		Dim:        dim,
		MaxChars:   max(MinMaxChars, maxChars),
		Thresholds: th,
		Params:     p,

		DeclaredMaxChars: maxChars,
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) check() error {
	if m.Dim <= 0 {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "invalid model: dim must be > 0 (got %d)", m.Dim), "dim")
	}
	if m.Params == nil {
		return perr.New(perr.ErrorCodeValidation, "invalid model: missing parameters")
	}
	if n := m.Params.size(); n != m.Dim {
		field := "delta"
		if m.Params.Kind() == LogisticHash3 {
			field = "weights"
		}
		return perr.WithField(
			perr.Newf(perr.ErrorCodeValidation, "invalid %s model: %s length %d != dim %d", m.Params.Kind(), field, n, m.Dim),
			field,
		)
	}
	return nil
}
