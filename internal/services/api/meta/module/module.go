// Package module mounts the meta endpoints
package module

import (
	"time"

	"hashjudge/internal/modkit"
	"hashjudge/internal/modkit/httpkit"
	metahttp "hashjudge/internal/services/api/meta/http"
)

// Options configures the meta endpoints
type Options struct {
	ServiceName string
	// Checks feed /ready
	Checks map[string]metahttp.Pinger
}

// Module serves the meta routes
type Module struct {
	b         modkit.Built
	opt       Options
	startedAt time.Time
}

// New builds the meta module, mounted at /meta unless overridden
func New(_ modkit.Deps, o Options, opts ...modkit.Option) *Module {
	return &Module{
		b: modkit.Build(append([]modkit.Option{
			modkit.WithName("meta"),
			modkit.WithPrefix("/meta"),
		}, opts...)...),
		opt:       o,
		startedAt: time.Now(),
	}
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Prefix is where the routes mount
func (m *Module) Prefix() string { return m.b.Prefix }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) {
		metahttp.Register(sub, metahttp.Deps{
			ServiceName: m.opt.ServiceName,
			StartedAt:   m.startedAt,
			Checks:      m.opt.Checks,
		})
	})
}

var _ modkit.Module = (*Module)(nil)
