package module

import (
	"hashjudge/internal/core/scorer"
	"hashjudge/internal/platform/config"
)

// Options holds configuration settings for the score module
type Options struct {
	Model            string
	ModelJA          string
	HumanThreshold   float64
	AIThreshold      float64
	HumanThresholdJA float64
	AIThresholdJA    float64
	Workers          int
}

// FromConfig extracts Options from HASHJUDGE_* env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("HASHJUDGE_")
	return Options{
		Model:            c.MayString("MODEL", "models/hash_model.json"),
		ModelJA:          c.MayString("MODEL_JA", ""),
		HumanThreshold:   c.MayFloat64("HUMAN_THRESHOLD", scorer.Unset),
		AIThreshold:      c.MayFloat64("AI_THRESHOLD", scorer.Unset),
		HumanThresholdJA: c.MayFloat64("HUMAN_THRESHOLD_JA", scorer.Unset),
		AIThresholdJA:    c.MayFloat64("AI_THRESHOLD_JA", scorer.Unset),
		Workers:          c.MayInt("SCORE_WORKERS", 4),
	}
}

// LoadScorer reads the configured model files
func LoadScorer(o Options) (*scorer.Scorer, error) {
	return scorer.Load(scorer.Files{
		Model:      o.Model,
		ModelJA:    o.ModelJA,
		HumanMax:   o.HumanThreshold,
		AIMin:      o.AIThreshold,
		HumanMaxJA: o.HumanThresholdJA,
		AIMinJA:    o.AIThresholdJA,
	})
}
