package model

import (
	"encoding/json"
	"io"
	"os"

	"hashjudge/internal/core/judge"
	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/validate"
)

// file is the on-disk JSON layout shared by both families
type file struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Dim        int         `json:"dim" validate:"gt=0"`
	MaxChars   int         `json:"max_chars"`
	Thresholds *thresholds `json:"thresholds,omitempty"`

	// naive_bayes_hash3
	PriorLogit float64   `json:"prior_logit,omitempty"`
	Delta      []float64 `json:"delta,omitempty"`

	// logistic_hash3
	Bias    float64   `json:"bias,omitempty"`
	Weights []float64 `json:"weights,omitempty"`
}

type thresholds struct {
	HumanMax *float64 `json:"human_max,omitempty"`
	AIMin    *float64 `json:"ai_min,omitempty"`
}

// Load reads and validates a model file
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open model %s", path)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, perr.WithOp(err, "model.Load "+path)
	}
	return m, nil
}

// Decode parses a model from r, fills defaults and checks the dim/parameter invariants
func Decode(r io.Reader) (*Model, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "invalid model JSON")
	}
	if field, msg, ok := validate.Struct(f); !ok {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "invalid model: %s", msg), field)
	}

	kind, err := ParseKind(f.Type)
	if err != nil {
		return nil, err
	}

	name := f.Name
	if name == "" {
		name = DefaultName
	}
	maxChars := f.MaxChars
	if maxChars == 0 {
		maxChars = DefaultMaxChars
	}

	var p Params
	switch kind {
	case NaiveBayesHash3:
		p = &NaiveBayes{PriorLogit: f.PriorLogit, Delta: f.Delta}
	case LogisticHash3:
		p = &Logistic{Bias: f.Bias, Weights: f.Weights}
	}

	return New(name, f.Dim, maxChars, f.Thresholds.resolve(), p)
}

// resolve fills the 0.45/0.55 defaults and clamps into [0,1]
func (t *thresholds) resolve() judge.Thresholds {
	out := judge.Default()
	if t != nil && t.HumanMax != nil {
		out.HumanMax = *t.HumanMax
	}
	if t != nil && t.AIMin != nil {
		out.AIMin = *t.AIMin
	}
	out.HumanMax = judge.Clamp(out.HumanMax)
	out.AIMin = judge.Clamp(out.AIMin)
	return out
}

// MarshalJSON writes the model back in the file layout
func (m *Model) MarshalJSON() ([]byte, error) {
	hm, ai := m.Thresholds.HumanMax, m.Thresholds.AIMin
	f := file{
		Name:       m.Name,
		Type:       m.Kind().String(),
		Dim:        m.Dim,
		MaxChars:   m.DeclaredMaxChars,
		Thresholds: &thresholds{HumanMax: &hm, AIMin: &ai},
	}
	switch p := m.Params.(type) {
	case *NaiveBayes:
		f.PriorLogit = p.PriorLogit
		f.Delta = p.Delta
	case *Logistic:
		f.Bias = p.Bias
		f.Weights = p.Weights
	}
	return json.Marshal(f)
}
