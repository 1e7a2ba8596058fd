// Package judge turns a probability into a three-way Human/Unknown/AI verdict
package judge

import (
	"strings"

	perr "hashjudge/internal/platform/errors"
)

// Verdict is the classifier output; Human and AI double as ground-truth labels
type Verdict uint8

const (
	// Unknown means the score fell between the two thresholds
	Unknown Verdict = iota
	// Human means score < HumanMax
	Human
	// AI means score >= AIMin
	AI
)

// Default thresholds used when a model file carries none
const (
	DefaultHumanMax = 0.45
	DefaultAIMin    = 0.55
)

func (v Verdict) String() string {
	switch v {
	case Human:
		return "Human"
	case AI:
		return "AI"
	default:
		return "Unknown"
	}
}

// MarshalText renders the verdict name in JSON/YAML
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// ParseLabel maps a dataset label ("ai" / "human", any case, surrounding space ignored)
// ok is false for anything else
func ParseLabel(s string) (Verdict, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ai":
		return AI, true
	case "human":
		return Human, true
	default:
		return Unknown, false
	}
}

// Thresholds are the two cut points; HumanMax < AIMin must hold
type Thresholds struct {
	HumanMax float64 `json:"human_max" yaml:"human_max"`
	AIMin    float64 `json:"ai_min" yaml:"ai_min"`
}

// Default returns the 0.45/0.55 pair
func Default() Thresholds { return Thresholds{HumanMax: DefaultHumanMax, AIMin: DefaultAIMin} }

// Validate enforces 0 <= HumanMax < AIMin <= 1
func (t Thresholds) Validate() error {
	if t.HumanMax < 0 || t.AIMin > 1 {
		return perr.InvalidArgf("thresholds out of range: human_max=%g ai_min=%g", t.HumanMax, t.AIMin)
	}
	if t.AIMin <= t.HumanMax {
		return perr.InvalidArgf("ai_min (%g) must be greater than human_max (%g)", t.AIMin, t.HumanMax)
	}
	return nil
}

// Classify maps a score onto a verdict; pure and stateless
func Classify(score float64, t Thresholds) Verdict {
	if score < t.HumanMax {
		return Human
	}
	if score < t.AIMin {
		return Unknown
	}
	return AI
}

// Resolve applies caller overrides on top of def
// A negative override keeps the default; anything else is clamped into [0,1].
// The result is validated.
func Resolve(def Thresholds, humanOverride, aiOverride float64) (Thresholds, error) {
	out := Thresholds{HumanMax: Clamp(def.HumanMax), AIMin: Clamp(def.AIMin)}
	if humanOverride >= 0 {
		out.HumanMax = Clamp(humanOverride)
	}
	if aiOverride >= 0 {
		out.AIMin = Clamp(aiOverride)
	}
	if err := out.Validate(); err != nil {
		return Thresholds{}, err
	}
	return out, nil
}

// Clamp pins v into [0,1]; NaN maps to 0
func Clamp(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
