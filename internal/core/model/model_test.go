package model

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hashjudge/internal/core/judge"
	"hashjudge/internal/core/trigram"
	perr "hashjudge/internal/platform/errors"
)

func nbModel(t *testing.T, dim int, prior float64, delta []float64) *Model {
	t.Helper()
	m, err := New("nb", dim, 1200, judge.Default(), &NaiveBayes{PriorLogit: prior, Delta: delta})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestSigmoid(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0.5},
		{math.Log(3), 0.75},
		{-math.Log(3), 0.25},
	}
	for _, c := range cases {
		if got := Sigmoid(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("Sigmoid(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	// no overflow at the extremes
	if got := Sigmoid(1000); got != 1 {
		t.Fatalf("Sigmoid(1000) = %v, want 1", got)
	}
	if got := Sigmoid(-1000); got != 0 || math.IsNaN(got) {
		t.Fatalf("Sigmoid(-1000) = %v, want 0", got)
	}
}

func TestScore_ShortTextIsNeutral(t *testing.T) {
	m := nbModel(t, 8, 5, make([]float64, 8))
	for _, s := range []string{"", "a", "ab"} {
		if got := m.Score(s); got != Neutral {
			t.Fatalf("Score(%q) = %v, want %v", s, got, Neutral)
		}
	}
}

func TestScore_DegenerateNaiveBayes(t *testing.T) {
	m := nbModel(t, 4096, 0, make([]float64, 4096))
	for _, s := range []string{"abc", "hello world", strings.Repeat("long text ", 500)} {
		if got := m.Score(s); got != 0.5 {
			t.Fatalf("Score(%q) = %v, want 0.5", s, got)
		}
	}
}

func TestScore_NaiveBayesCountsRepeats(t *testing.T) {
	// dim 1 sends every window to bucket 0; logit = prior + windows*delta
	m := nbModel(t, 1, -1, []float64{0.5})
	text := "aaaaaa" // 4 windows, all the same trigram
	want := Sigmoid(-1 + 4*0.5)
	if got := m.Score(text); math.Abs(got-want) > 1e-12 {
		t.Fatalf("Score = %v, want %v", got, want)
	}
}

func TestScore_NaiveBayesStopsAtMaxChars(t *testing.T) {
	m := nbModel(t, 1, 0, []float64{0.01})
	long := strings.Repeat("x", 5000)
	// max_chars 1200 -> 1198 windows
	want := Sigmoid(1198 * 0.01)
	if got := m.Score(long); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %v, want %v", got, want)
	}
}

func TestScore_LogisticNormalizesByWindowCount(t *testing.T) {
	rs := []rune("abcabc") // windows: abc bca cab abc
	dim := 64
	w := make([]float64, dim)
	for i := 0; i < trigram.Windows(len(rs), 1200); i++ {
		w[trigram.Hash(rs, i, dim)] = 2
	}
	m, err := New("lr", dim, 1200, judge.Default(), &Logistic{Bias: -1, Weights: w})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// every window hits a weight of 2 and frequencies sum to 1 -> logit = -1 + 2
	want := Sigmoid(1)
	if got := m.Score("abcabc"); math.Abs(got-want) > 1e-12 {
		t.Fatalf("Score = %v, want %v", got, want)
	}
	// repetition does not inflate the logistic score
	if got := m.Score("abcabcabcabcabc"); math.Abs(got-want) > 1e-12 {
		t.Fatalf("Score(repeated) = %v, want %v", got, want)
	}
}

func TestScore_InRange(t *testing.T) {
	delta := make([]float64, 32)
	for i := range delta {
		delta[i] = float64(i%7) - 3
	}
	m := nbModel(t, 32, 0.3, delta)
	for _, s := range []string{"abc", "the quick brown fox", "日本語のテキストです"} {
		got := m.Score(s)
		if got < 0 || got > 1 {
			t.Fatalf("Score(%q) = %v out of [0,1]", s, got)
		}
	}
}

func TestNew_Invariants(t *testing.T) {
	if _, err := New("x", 0, 1200, judge.Default(), &NaiveBayes{}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("dim 0: err = %v", err)
	}
	_, err := New("x", 4, 1200, judge.Default(), &Logistic{Weights: make([]float64, 3)})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("weights mismatch: err = %v", err)
	}
	if e, ok := perr.As(err); !ok || e.Field() != "weights" {
		t.Fatalf("weights mismatch field = %v", err)
	}
	m, err := New("x", 2, 10, judge.Default(), &NaiveBayes{Delta: []float64{0, 0}})
	if err != nil || m.MaxChars != MinMaxChars || m.DeclaredMaxChars != 10 {
		t.Fatalf("max_chars floor: %+v %v", m, err)
	}
}

func TestDecode_MaxCharsRaisedNotRejected(t *testing.T) {
	cases := []struct {
		in       string
		scoring  int
		declared int
	}{
		{`{"dim":1,"delta":[0]}`, DefaultMaxChars, DefaultMaxChars},
		{`{"dim":1,"delta":[0],"max_chars":0}`, DefaultMaxChars, DefaultMaxChars},
		{`{"dim":1,"delta":[0],"max_chars":-5}`, MinMaxChars, -5},
		{`{"dim":1,"delta":[0],"max_chars":150}`, MinMaxChars, 150},
		{`{"dim":1,"delta":[0],"max_chars":5000}`, 5000, 5000},
	}
	for _, c := range cases {
		m, err := Decode(strings.NewReader(c.in))
		if err != nil {
			t.Fatalf("Decode(%s): %v", c.in, err)
		}
		if m.MaxChars != c.scoring {
			t.Fatalf("Decode(%s) MaxChars = %d, want %d", c.in, m.MaxChars, c.scoring)
		}
		if got := m.Meta().MaxChars; got != c.declared {
			t.Fatalf("Decode(%s) Meta().MaxChars = %d, want %d", c.in, got, c.declared)
		}
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"", NaiveBayesHash3, true},
		{"naive_bayes_hash3", NaiveBayesHash3, true},
		{"logistic_hash3", LogisticHash3, true},
		{"svm", 0, false},
	}
	for _, c := range cases {
		got, err := ParseKind(c.in)
		if got != c.want || (err == nil) != c.ok {
			t.Fatalf("ParseKind(%q) = %v, %v", c.in, got, err)
		}
	}
}

func TestDecode_DefaultsAndThresholds(t *testing.T) {
	in := `{"dim": 2, "delta": [0.1, -0.1], "thresholds": {"human_max": 0.3}}`
	m, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Name != DefaultName || m.Kind() != NaiveBayesHash3 || m.MaxChars != DefaultMaxChars {
		t.Fatalf("defaults not applied: %+v", m)
	}
	if m.Thresholds != (judge.Thresholds{HumanMax: 0.3, AIMin: 0.55}) {
		t.Fatalf("thresholds = %+v", m.Thresholds)
	}
}

func TestDecode_ClampsThresholds(t *testing.T) {
	in := `{"type":"logistic_hash3","dim":1,"weights":[1],"bias":0.5,"max_chars":50,"thresholds":{"human_max":-2,"ai_min":4}}`
	m, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Thresholds != (judge.Thresholds{HumanMax: 0, AIMin: 1}) {
		t.Fatalf("thresholds = %+v", m.Thresholds)
	}
	if m.MaxChars != MinMaxChars || m.DeclaredMaxChars != 50 {
		t.Fatalf("max_chars = %d declared %d, want %d and 50", m.MaxChars, m.DeclaredMaxChars, MinMaxChars)
	}
	lr, ok := m.Params.(*Logistic)
	if !ok || lr.Bias != 0.5 {
		t.Fatalf("params = %#v", m.Params)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		code perr.ErrorCode
	}{
		{"bad json", `{"dim":`, perr.ErrorCodeJSON},
		{"zero dim", `{"dim":0,"delta":[]}`, perr.ErrorCodeValidation},
		{"negative dim", `{"dim":-4}`, perr.ErrorCodeValidation},
		{"delta mismatch", `{"dim":3,"delta":[1,2]}`, perr.ErrorCodeValidation},
		{"weights mismatch", `{"type":"logistic_hash3","dim":2,"weights":[1]}`, perr.ErrorCodeValidation},
		{"unknown type", `{"type":"svm","dim":1,"delta":[0]}`, perr.ErrorCodeValidation},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(c.in))
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := perr.CodeOf(err); got != c.code {
				t.Fatalf("code = %v, want %v (%v)", got, c.code, err)
			}
		})
	}
}

func TestLoad_RoundTripThroughFile(t *testing.T) {
	orig, err := New("rt", 3, 400, judge.Thresholds{HumanMax: 0.2, AIMin: 0.7}, &Logistic{Bias: 0.25, Weights: []float64{1, 2, 3}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Meta() != orig.Meta() || got.Thresholds != orig.Thresholds {
		t.Fatalf("round trip mismatch: %+v vs %+v", got.Meta(), orig.Meta())
	}
	if !bytes.Contains(b, []byte(`"type":"logistic_hash3"`)) {
		t.Fatalf("marshal missing type: %s", b)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}
