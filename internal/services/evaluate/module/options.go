package module

import (
	"flag"

	"hashjudge/internal/core/scorer"
	"hashjudge/internal/platform/config"
	perr "hashjudge/internal/platform/errors"
)

// Options is the fully resolved run configuration. New uses it as given.
// Threshold fields use scorer.Unset (negative) for "model default".
type Options struct {
	Input            string
	Model            string
	ModelJA          string
	HumanThreshold   float64
	AIThreshold      float64
	HumanThresholdJA float64
	AIThresholdJA    float64
	MaxRows          int // 0 = all
	Workers          int // 1 = sequential
	Batch            int
	Table            string
	ProgressEvery    int // 0 disables progress lines
}

// Defaults are the built-in settings before env or flags
func Defaults() Options {
	return Options{
		Input:            "data/processed/unified_text_label.parquet",
		Model:            "models/hash_model.json",
		HumanThreshold:   scorer.Unset,
		AIThreshold:      scorer.Unset,
		HumanThresholdJA: scorer.Unset,
		AIThresholdJA:    scorer.Unset,
		Workers:          10,
		Batch:            2048,
		Table:            "text_label",
		ProgressEvery:    50,
	}
}

// FromConfig layers HASHJUDGE_EVAL_* over Defaults; the CLI then binds its flags to the result
func FromConfig(cfg config.Conf) Options {
	ec := cfg.Prefix("HASHJUDGE_EVAL_")
	d := Defaults()
	return Options{
		Input:            ec.MayString("INPUT", d.Input),
		Model:            ec.MayString("MODEL", d.Model),
		ModelJA:          ec.MayString("MODEL_JA", d.ModelJA),
		HumanThreshold:   ec.MayFloat64("HUMAN_THRESHOLD", d.HumanThreshold),
		AIThreshold:      ec.MayFloat64("AI_THRESHOLD", d.AIThreshold),
		HumanThresholdJA: ec.MayFloat64("HUMAN_THRESHOLD_JA", d.HumanThresholdJA),
		AIThresholdJA:    ec.MayFloat64("AI_THRESHOLD_JA", d.AIThresholdJA),
		MaxRows:          ec.MayInt("MAX_ROWS", d.MaxRows),
		Workers:          ec.MayInt("WORKERS", d.Workers),
		Batch:            ec.MayInt("BATCH", d.Batch),
		Table:            ec.MayString("TABLE", d.Table),
		ProgressEvery:    ec.MayInt("PROGRESS_EVERY", d.ProgressEvery),
	}
}

// Validate rejects settings no run can use; Workers below 1 is raised to 1
func (o Options) Validate() (Options, error) {
	switch {
	case o.Input == "":
		return o, perr.WithField(perr.InvalidArgf("input is required"), "input")
	case o.MaxRows < 0:
		return o, perr.WithField(perr.InvalidArgf("max rows must be >= 0, got %d", o.MaxRows), "max_rows")
	case o.Batch < 1:
		return o, perr.WithField(perr.InvalidArgf("batch must be >= 1, got %d", o.Batch), "batch")
	case o.ProgressEvery < 0:
		return o, perr.WithField(perr.InvalidArgf("progress interval must be >= 0, got %d", o.ProgressEvery), "progress_every")
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o, nil
}

// Bind registers the run flags on fs with the current values as defaults, so a
// flag given on the command line always replaces whatever env supplied
func (o *Options) Bind(fs *flag.FlagSet) {
	fs.StringVar(&o.Input, "input", o.Input, "dataset: .parquet, .jsonl[.gz], .ndjson[.gz] or postgres:// DSN")
	fs.StringVar(&o.Model, "model", o.Model, "primary model JSON")
	fs.StringVar(&o.ModelJA, "model-ja", o.ModelJA, "optional Japanese model JSON (empty disables)")
	fs.Float64Var(&o.HumanThreshold, "human-threshold", o.HumanThreshold, "override human_max (negative = model default)")
	fs.Float64Var(&o.AIThreshold, "ai-threshold", o.AIThreshold, "override ai_min (negative = model default)")
	fs.Float64Var(&o.HumanThresholdJA, "human-threshold-ja", o.HumanThresholdJA, "override Japanese human_max (negative = model default)")
	fs.Float64Var(&o.AIThresholdJA, "ai-threshold-ja", o.AIThresholdJA, "override Japanese ai_min (negative = model default)")
	fs.IntVar(&o.MaxRows, "max-rows", o.MaxRows, "stop after this many accepted rows (0 = all)")
	fs.IntVar(&o.Workers, "workers", o.Workers, "scoring goroutines (1 = sequential)")
	fs.IntVar(&o.Batch, "batch", o.Batch, "rows per read batch")
	fs.StringVar(&o.Table, "table", o.Table, "table name for postgres input")
	fs.IntVar(&o.ProgressEvery, "progress-every", o.ProgressEvery, "batches between progress lines (0 = off)")
}
