// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"hashjudge/internal/core/version"
	"hashjudge/internal/modkit/httpkit"
)

// Pinger reports whether a dependency can serve
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      map[string]Pinger // nil values report skipped
	Now         func() time.Time
}

type handlers struct{ deps Deps }

// Register mounts /health, /ready, /version and /service
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck is one dependency result: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse rolls checks up into ok, degraded or fail
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps.Checks))
	for name := range h.deps.Checks {
		names = append(names, name)
	}
	slices.Sort(names)

	res := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(names))}
	for _, name := range names {
		c := ReadyCheck{Name: name, Status: "ok"}
		if p := h.deps.Checks[name]; p == nil {
			c.Status = "skipped"
			if res.Status == "ok" {
				res.Status = "degraded"
			}
		} else if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = "fail", err.Error()
			res.Status = "fail"
		}
		res.Checks = append(res.Checks, c)
	}
	res.Now = h.deps.Now().UTC().Format(time.RFC3339)
	return res, nil
}

func (h *handlers) version(*http.Request) (any, error) {
	return version.For(h.deps.ServiceName), nil
}

func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
