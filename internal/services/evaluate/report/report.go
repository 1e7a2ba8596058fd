// Package report turns an evaluation state into the summary document and writes it out
package report

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"hashjudge/internal/core/judge"
	"hashjudge/internal/core/model"
	"hashjudge/internal/core/scorer"
	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/services/evaluate/domain"

	"gopkg.in/yaml.v3"
)

// Thresholds echoes the resolved cut points, rounded to 4 places
type Thresholds struct {
	HumanMax float64 `json:"human_max" yaml:"human_max"`
	AIMin    float64 `json:"ai_min" yaml:"ai_min"`
}

// Segments splits strict accuracy by the likely-Japanese flag
type Segments struct {
	JPRows              int64   `json:"jp_rows" yaml:"jp_rows"`
	JPStrictAccuracy    float64 `json:"jp_strict_accuracy" yaml:"jp_strict_accuracy"`
	NonJPRows           int64   `json:"non_jp_rows" yaml:"non_jp_rows"`
	NonJPStrictAccuracy float64 `json:"non_jp_strict_accuracy" yaml:"non_jp_strict_accuracy"`
}

// TruthCounts counts rows per ground-truth label
type TruthCounts struct {
	AI    int64 `json:"AI" yaml:"AI"`
	Human int64 `json:"Human" yaml:"Human"`
}

// PredictionCounts counts rows per verdict
type PredictionCounts struct {
	AI      int64 `json:"AI" yaml:"AI"`
	Human   int64 `json:"Human" yaml:"Human"`
	Unknown int64 `json:"Unknown" yaml:"Unknown"`
}

// ConfusionMatrix is keyed "<truth>-><prediction>"
type ConfusionMatrix struct {
	AIAI         int64 `json:"AI->AI" yaml:"AI->AI"`
	AIHuman      int64 `json:"AI->Human" yaml:"AI->Human"`
	AIUnknown    int64 `json:"AI->Unknown" yaml:"AI->Unknown"`
	HumanAI      int64 `json:"Human->AI" yaml:"Human->AI"`
	HumanHuman   int64 `json:"Human->Human" yaml:"Human->Human"`
	HumanUnknown int64 `json:"Human->Unknown" yaml:"Human->Unknown"`
}

// ClassMetrics is precision/recall/F1 for one class
type ClassMetrics struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

// Metrics holds per-class scores
type Metrics struct {
	AI    ClassMetrics `json:"AI" yaml:"AI"`
	Human ClassMetrics `json:"Human" yaml:"Human"`
}

// ModelInfo echoes the model identity
type ModelInfo struct {
	Name     string `json:"name" yaml:"name"`
	Dim      int    `json:"dim" yaml:"dim"`
	MaxChars int    `json:"max_chars" yaml:"max_chars"`
}

// Summary is the evaluation output document
type Summary struct {
	RunID            string           `json:"run_id" yaml:"run_id"`
	Input            string           `json:"input" yaml:"input"`
	Thresholds       Thresholds       `json:"thresholds" yaml:"thresholds"`
	ThresholdsJA     Thresholds       `json:"thresholds_ja" yaml:"thresholds_ja"`
	MaxRows          int              `json:"max_rows" yaml:"max_rows"`
	ProcessedRows    int64            `json:"processed_rows" yaml:"processed_rows"`
	SkippedRows      int64            `json:"skipped_rows" yaml:"skipped_rows"`
	StrictAccuracy   float64          `json:"strict_accuracy" yaml:"strict_accuracy"`
	DecidedAccuracy  float64          `json:"decided_accuracy" yaml:"decided_accuracy"`
	Coverage         float64          `json:"coverage" yaml:"coverage"`
	UnknownRate      float64          `json:"unknown_rate" yaml:"unknown_rate"`
	AvgScore         float64          `json:"avg_score" yaml:"avg_score"`
	LanguageSegments Segments         `json:"language_segments" yaml:"language_segments"`
	GroundTruth      TruthCounts      `json:"ground_truth_counts" yaml:"ground_truth_counts"`
	Predictions      PredictionCounts `json:"prediction_counts" yaml:"prediction_counts"`
	ConfusionMatrix  ConfusionMatrix  `json:"confusion_matrix" yaml:"confusion_matrix"`
	Metrics          Metrics          `json:"metrics" yaml:"metrics"`
	Model            ModelInfo        `json:"model" yaml:"model"`
	ModelJA          *ModelInfo       `json:"model_ja" yaml:"model_ja"`
	Workers          int              `json:"workers" yaml:"workers"`
	BatchSize        int              `json:"batch_size" yaml:"batch_size"`
	Duration         string           `json:"duration" yaml:"duration"`
}

// Run carries the run parameters echoed into the summary
type Run struct {
	ID        string
	Input     string
	MaxRows   int
	Workers   int
	BatchSize int
	Duration  time.Duration
}

// Build derives every ratio from st; any division by zero yields 0
func Build(run Run, sc *scorer.Scorer, st domain.State) Summary {
	c := st.Confusion
	total := st.Total

	s := Summary{
		RunID:           run.ID,
		Input:           run.Input,
		Thresholds:      thresholds(sc.Primary().Thresholds),
		ThresholdsJA:    thresholds(sc.SecondaryThresholds()),
		MaxRows:         run.MaxRows,
		ProcessedRows:   total,
		SkippedRows:     st.Skipped,
		StrictAccuracy:  Round(ratio(st.Correct, total), 6),
		DecidedAccuracy: Round(ratio(st.DecidedCorrect, st.Decided), 6),
		Coverage:        Round(ratio(st.Decided, total), 6),
		UnknownRate:     Round(ratio(c.Predicted(judge.Unknown), total), 6),
		AvgScore:        Round(safeDiv(st.ScoreSum(), float64(total)), 4),
		LanguageSegments: Segments{
			JPRows:              st.JPRows,
			JPStrictAccuracy:    Round(ratio(st.JPCorrect, st.JPRows), 6),
			NonJPRows:           st.NonJPRows,
			NonJPStrictAccuracy: Round(ratio(st.NonJPCorrect, st.NonJPRows), 6),
		},
		GroundTruth: TruthCounts{AI: c.Truth(judge.AI), Human: c.Truth(judge.Human)},
		Predictions: PredictionCounts{
			AI:      c.Predicted(judge.AI),
			Human:   c.Predicted(judge.Human),
			Unknown: c.Predicted(judge.Unknown),
		},
		ConfusionMatrix: ConfusionMatrix(c),
		Metrics: Metrics{
			AI:    PRF(c.AIAI, c.HumanAI, c.AIHuman+c.AIUnknown),
			Human: PRF(c.HumanHuman, c.AIHuman, c.HumanAI+c.HumanUnknown),
		},
		Model:     modelInfo(sc.Primary().Model),
		Workers:   run.Workers,
		BatchSize: run.BatchSize,
		Duration:  run.Duration.Round(time.Millisecond).String(),
	}
	if p, ok := sc.Secondary(); ok {
		mi := modelInfo(p.Model)
		s.ModelJA = &mi
	}
	return s
}

// PRF computes precision, recall and F1 rounded to 6 places
func PRF(tp, fp, fn int64) ClassMetrics {
	p := ratio(tp, tp+fp)
	r := ratio(tp, tp+fn)
	return ClassMetrics{
		Precision: Round(p, 6),
		Recall:    Round(r, 6),
		F1:        Round(safeDiv(2*p*r, p+r), 6),
	}
}

// Round rounds v to the given number of decimal places, half away from zero
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

func ratio(n, d int64) float64 { return safeDiv(float64(n), float64(d)) }

func safeDiv(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

func thresholds(t judge.Thresholds) Thresholds {
	return Thresholds{HumanMax: Round(t.HumanMax, 4), AIMin: Round(t.AIMin, 4)}
}

func modelInfo(m *model.Model) ModelInfo {
	return ModelInfo{Name: m.Name, Dim: m.Dim, MaxChars: m.DeclaredMaxChars}
}

// Output formats for Encode
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes s to w as indented JSON or YAML
func Encode(w io.Writer, s Summary, format string) error {
	switch format {
	case "", FormatJSON:
		b, err := marshalJSON(s)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "encode summary yaml")
		}
		return enc.Close()
	default:
		return perr.InvalidArgf("unknown summary format %q (json|yaml)", format)
	}
}

// WriteFile writes the JSON summary to path, creating parent directories
func WriteFile(path string, s Summary) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "create summary dir %s", dir)
		}
	}
	b, err := marshalJSON(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "write summary %s", path)
	}
	return nil
}

// marshalJSON keeps "->" keys and non-ASCII input paths unescaped
func marshalJSON(s Summary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode summary json")
	}
	return buf.Bytes(), nil
}
