// Package module mounts scoring into the API
package module

import (
	"hashjudge/internal/core/scorer"
	"hashjudge/internal/modkit"
	"hashjudge/internal/modkit/httpkit"
	"hashjudge/internal/services/score/domain"
	scorehttp "hashjudge/internal/services/score/http"
	scoresvc "hashjudge/internal/services/score/service"
)

// Module serves the scoring routes over one shared scorer
type Module struct {
	b   modkit.Built
	svc domain.ServicePort
}

// New wraps sc; routes mount at the parent root unless WithPrefix says otherwise
func New(deps modkit.Deps, sc *scorer.Scorer, workers int, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("score")}, opts...)...)
	deps.Log.Debug().Str("module", b.Name).Str("prefix", b.Prefix).Int("workers", workers).Msg("module built")
	return &Module{b: b, svc: scoresvc.New(sc, workers)}
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Prefix is where the routes mount, empty at the root
func (m *Module) Prefix() string { return m.b.Prefix }

// Service is the scoring service behind the routes
func (m *Module) Service() domain.ServicePort { return m.svc }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { scorehttp.Register(sub, m.svc) })
}

var _ modkit.Module = (*Module)(nil)
