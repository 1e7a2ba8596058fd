package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "hashjudge/internal/platform/errors"
	phttp "hashjudge/internal/platform/net/http"
)

type textIn struct {
	Text string `json:"text" validate:"required"`
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr ...string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func TestJSON(t *testing.T) {
	echo := JSON(func(_ *http.Request, in textIn) (any, error) {
		switch in.Text {
		case "fail":
			return nil, perr.Unavailablef("no model loaded")
		case "created":
			return Response{Status: http.StatusCreated, Data: "made"}, nil
		}
		return map[string]int{"len": len(in.Text)}, nil
	})

	cases := []struct {
		name, body string
		status     int
		code       string
		data       string
	}{
		{"ok", `{"text":"abcd"}`, http.StatusOK, "", `{"len":4}`},
		{"response passthrough", `{"text":"created"}`, http.StatusCreated, "", `"made"`},
		{"handler error", `{"text":"fail"}`, http.StatusServiceUnavailable, "unavailable", ""},
		{"validation", `{"text":""}`, http.StatusBadRequest, "validation", ""},
		{"bad json", `{"text":`, http.StatusBadRequest, "json", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, env := do(t, echo, http.MethodPost, "/", c.body)
			if code != c.status {
				t.Fatalf("status = %d, want %d", code, c.status)
			}
			if c.code != "" {
				if env.Error == nil || env.Error.Code != c.code {
					t.Fatalf("error = %+v, want code %s", env.Error, c.code)
				}
				return
			}
			if string(env.Data) != c.data {
				t.Fatalf("data = %s, want %s", env.Data, c.data)
			}
		})
	}
}

func TestCall(t *testing.T) {
	h := Call(func(r *http.Request) (any, error) {
		if r.URL.Query().Get("x") != "" {
			return nil, errors.New("raw failure")
		}
		return "fine", nil
	})
	if code, env := do(t, h, http.MethodGet, "/", ""); code != http.StatusOK || string(env.Data) != `"fine"` {
		t.Fatalf("ok = %d %s", code, env.Data)
	}
	code, env := do(t, h, http.MethodGet, "/?x=1", "")
	if code != http.StatusInternalServerError || env.Error.Message != "Internal Server Error" {
		t.Fatalf("err = %d %+v", code, env.Error)
	}
}

func TestMountAPIV1AndProtected(t *testing.T) {
	mux, r := phttp.NewRouter()
	hit := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Scope", tag)
				next.ServeHTTP(w, req)
			})
		}
	}
	MountAPIV1(r, []func(http.Handler) http.Handler{hit("v1")}, func(api Router) {
		Get(api, "/open", func(*http.Request) (any, error) { return "open", nil })
		Protected(api, "tok", func(p Router) {
			PostJSON(p, "/score", func(_ *http.Request, in textIn) (any, error) { return in.Text, nil })
		})
	})
	Get(r, "/outside", func(*http.Request) (any, error) { return "out", nil })

	cases := []struct {
		name, method, path, body, authz string
		status                          int
		scoped                          bool
	}{
		{"open route", http.MethodGet, "/api/v1/open", "", "", http.StatusOK, true},
		{"protected no token", http.MethodPost, "/api/v1/score", `{"text":"a"}`, "", http.StatusUnauthorized, true},
		{"protected with token", http.MethodPost, "/api/v1/score", `{"text":"a"}`, "Bearer tok", http.StatusOK, true},
		{"outside scope", http.MethodGet, "/outside", "", "", http.StatusOK, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
			if c.authz != "" {
				req.Header.Set("Authorization", c.authz)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != c.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, c.status, rec.Body.String())
			}
			if got := rec.Header().Get("X-Scope") == "v1"; got != c.scoped {
				t.Fatalf("scoped = %v, want %v", got, c.scoped)
			}
		})
	}

	// empty token leaves the group open
	mux, r = phttp.NewRouter()
	Protected(r, "", func(p Router) { Get(p, "/m", func(*http.Request) (any, error) { return 1, nil }) })
	if code, _ := do(t, mux, http.MethodGet, "/m", ""); code != http.StatusOK {
		t.Fatalf("open protected = %d, want 200", code)
	}
}
