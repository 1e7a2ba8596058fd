package scorer

import (
	"hashjudge/internal/core/judge"
	"hashjudge/internal/core/model"
	perr "hashjudge/internal/platform/errors"
)

// Unset marks a threshold override that falls back to the model default
const Unset = -1.0

// Files locates the model files and carries threshold overrides
// A negative override keeps the model-embedded value; others are clamped into [0,1].
type Files struct {
	Model      string
	ModelJA    string // optional
	HumanMax   float64
	AIMin      float64
	HumanMaxJA float64
	AIMinJA    float64
}

// DefaultFiles returns Files with every override unset
func DefaultFiles(modelPath, modelJAPath string) Files {
	return Files{
		Model:      modelPath,
		ModelJA:    modelJAPath,
		HumanMax:   Unset,
		AIMin:      Unset,
		HumanMaxJA: Unset,
		AIMinJA:    Unset,
	}
}

// Load reads the model files, resolves thresholds and builds a Scorer
func Load(f Files, opts ...Option) (*Scorer, error) {
	if f.Model == "" {
		return nil, perr.WithField(perr.InvalidArgf("model path is required"), "model")
	}
	m, err := model.Load(f.Model)
	if err != nil {
		return nil, err
	}
	th, err := judge.Resolve(m.Thresholds, f.HumanMax, f.AIMin)
	if err != nil {
		return nil, perr.WithOp(err, "primary thresholds")
	}
	primary := Profile{Model: m, Thresholds: th}

	var secondary *Profile
	if f.ModelJA != "" {
		mj, err := model.Load(f.ModelJA)
		if err != nil {
			return nil, perr.WithField(err, "model_ja")
		}
		thj, err := judge.Resolve(mj.Thresholds, f.HumanMaxJA, f.AIMinJA)
		if err != nil {
			return nil, perr.WithOp(err, "secondary thresholds")
		}
		secondary = &Profile{Model: mj, Thresholds: thj}
	}
	return New(primary, secondary, opts...)
}
