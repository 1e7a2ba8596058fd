package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hashjudge/internal/core/judge"
	"hashjudge/internal/core/model"
	"hashjudge/internal/core/scorer"
	"hashjudge/internal/platform/config"
	phttp "hashjudge/internal/platform/net/http"
)

func newMux(t *testing.T) http.Handler {
	t.Helper()
	m, err := model.New("en", 8, 1200, judge.Default(), &model.NaiveBayes{Delta: make([]float64, 8)})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	sc, err := scorer.New(scorer.Profile{Model: m, Thresholds: judge.Default()}, nil)
	if err != nil {
		t.Fatalf("scorer.New: %v", err)
	}
	mux, r := phttp.NewRouter()
	Mount(r, Options{Config: config.New(), Scorer: sc, Workers: 2})
	return mux
}

func TestMount_Routes(t *testing.T) {
	mux := newMux(t)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/v1/score", `{"text":"neutral text"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/score/batch", `{"texts":["a","b"]}`, http.StatusOK},
		{http.MethodGet, "/api/v1/model", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/ready", "", http.StatusOK},
		{http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/debug/pprof/", "", http.StatusNotFound},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, strings.NewReader(c.body)))
		if rec.Code != c.want {
			t.Fatalf("%s %s = %d, want %d (%s)", c.method, c.path, rec.Code, c.want, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(`{"text":""}`)))
	var env struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code  string `json:"code"`
			Field string `json:"field"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.RequestID == "" || env.Error.Code != "validation" || env.Error.Field != "text" {
		t.Fatalf("error envelope = %+v", env)
	}
}

func TestMount_ReadyReportsModel(t *testing.T) {
	mux := newMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meta/ready", nil))
	var env struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"checks"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Status != "ok" || len(env.Data.Checks) != 1 || env.Data.Checks[0].Name != "model" {
		t.Fatalf("ready = %+v", env.Data)
	}
}

func TestModelCheck_NoScorer(t *testing.T) {
	if err := (modelCheck{}).Ping(t.Context()); err == nil {
		t.Fatalf("Ping without scorer = nil, want error")
	}
}

func TestMount_TokenGuardsScoring(t *testing.T) {
	m, err := model.New("en", 8, 1200, judge.Default(), &model.NaiveBayes{Delta: make([]float64, 8)})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	sc, err := scorer.New(scorer.Profile{Model: m, Thresholds: judge.Default()}, nil)
	if err != nil {
		t.Fatalf("scorer.New: %v", err)
	}
	mux, r := phttp.NewRouter()
	Mount(r, Options{Config: config.New(), Scorer: sc, Workers: 1, Token: "tok"})

	cases := []struct {
		path, authz string
		want        int
	}{
		{"/api/v1/model", "", http.StatusUnauthorized},
		{"/api/v1/model", "Bearer tok", http.StatusOK},
		{"/api/v1/meta/health", "", http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, c.path, nil)
		if c.authz != "" {
			req.Header.Set("Authorization", c.authz)
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Fatalf("%s auth=%q = %d, want %d", c.path, c.authz, rec.Code, c.want)
		}
	}
}
