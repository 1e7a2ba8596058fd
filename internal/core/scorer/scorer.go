// Package scorer routes a text to the primary or Japanese model profile and classifies the score
package scorer

import (
	"hashjudge/internal/core/judge"
	"hashjudge/internal/core/langhint"
	"hashjudge/internal/core/model"
	"hashjudge/internal/core/normalize"
	perr "hashjudge/internal/platform/errors"
)

// Profile pairs a model with the thresholds resolved for it
type Profile struct {
	Model      *model.Model
	Thresholds judge.Thresholds
}

// Result is the outcome for one text
type Result struct {
	Score    float64       `json:"score"`
	Verdict  judge.Verdict `json:"verdict"`
	Japanese bool          `json:"japanese"`
	Routed   bool          `json:"routed"`
	Model    string        `json:"model"`
}

// Scorer is immutable after New and safe to share across goroutines
type Scorer struct {
	primary   Profile
	secondary *Profile
	hint      langhint.Heuristic
	norm      *normalize.Normalizer
}

// Option configures a Scorer
type Option func(*Scorer)

// WithHeuristic replaces the default likely-Japanese tuning
func WithHeuristic(h langhint.Heuristic) Option {
	return func(s *Scorer) { s.hint = h }
}

// New validates both profiles and returns a Scorer; secondary may be nil
func New(primary Profile, secondary *Profile, opts ...Option) (*Scorer, error) {
	if err := primary.check("primary"); err != nil {
		return nil, err
	}
	if secondary != nil {
		if err := secondary.check("secondary"); err != nil {
			return nil, err
		}
		cp := *secondary
		secondary = &cp
	}
	s := &Scorer{
		primary:   primary,
		secondary: secondary,
		hint:      langhint.DefaultHeuristic(),
		norm:      normalize.New(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (p Profile) check(role string) error {
	if p.Model == nil {
		return perr.InvalidArgf("%s model is required", role)
	}
	if err := p.Thresholds.Validate(); err != nil {
		return perr.WithOp(err, role+" thresholds")
	}
	return nil
}

// Primary returns the primary profile
func (s *Scorer) Primary() Profile { return s.primary }

// Secondary returns the Japanese profile and whether one is configured
func (s *Scorer) Secondary() (Profile, bool) {
	if s.secondary == nil {
		return Profile{}, false
	}
	return *s.secondary, true
}

// SecondaryThresholds falls back to the primary thresholds when no Japanese profile exists
func (s *Scorer) SecondaryThresholds() judge.Thresholds {
	if s.secondary == nil {
		return s.primary.Thresholds
	}
	return s.secondary.Thresholds
}

// Judge normalizes raw and scores it
func (s *Scorer) Judge(raw string) Result {
	return s.JudgeNormalized(raw, s.norm.Normalize(raw))
}

// JudgeNormalized scores an already normalized text; raw feeds the language heuristic only
func (s *Scorer) JudgeNormalized(raw, normalized string) Result {
	jp := s.hint.LikelyJapanese(raw)
	p, routed := s.primary, false
	if jp && s.secondary != nil {
		p, routed = *s.secondary, true
	}
	score := p.Model.Score(normalized)
	return Result{
		Score:    score,
		Verdict:  judge.Classify(score, p.Thresholds),
		Japanese: jp,
		Routed:   routed,
		Model:    p.Model.Name,
	}
}
