// Package modkit wires API modules: shared dependencies, build options, and
// mounting a module's routes under its prefix with its own middleware.
package modkit

import (
	"net/http"
	"strings"

	"hashjudge/internal/modkit/httpkit"
	"hashjudge/internal/platform/config"
	"hashjudge/internal/platform/logger"
)

// Deps are handed to every module constructor
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
}

// Module is anything the API can mount
type Module interface {
	Name() string
	MountRoutes(r httpkit.Router)
}

// Option shapes a Built
type Option func(*Built)

// Built is the resolved module shape
type Built struct {
	Name   string
	Prefix string // "" mounts at the parent root
	Mw     []func(http.Handler) http.Handler
}

// WithName names the module in logs
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts the module under prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends module scoped middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Prefix = cleanPrefix(b.Prefix)
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// cleanPrefix returns "" or a path with one leading and no trailing slash
func cleanPrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// Mount registers routes under b.Prefix with b.Mw applied to them only
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	r.Route(b.Prefix, func(sub httpkit.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		register(sub)
	})
}
