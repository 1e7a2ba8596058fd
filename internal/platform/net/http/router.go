// Package http is the transport seam: a small router interface over chi,
// the response envelope, and the server lifecycle.
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
)

// Router is what modules mount routes on
type Router interface {
	Get(path string, h stdhttp.HandlerFunc)
	Post(path string, h stdhttp.HandlerFunc)
	Handle(path string, h stdhttp.Handler)
	Use(mw ...func(stdhttp.Handler) stdhttp.Handler)
	Group(fn func(Router))
	Route(prefix string, fn func(Router))
}

type chiRouter struct{ r chi.Router }

// AdaptChi wraps a chi router
func AdaptChi(r chi.Router) Router { return chiRouter{r: r} }

// NewRouter returns a fresh chi mux and its Router view
func NewRouter() (*chi.Mux, Router) {
	m := chi.NewRouter()
	return m, AdaptChi(m)
}

func (c chiRouter) Get(p string, h stdhttp.HandlerFunc)  { c.r.Get(p, h) }
func (c chiRouter) Post(p string, h stdhttp.HandlerFunc) { c.r.Post(p, h) }
func (c chiRouter) Handle(p string, h stdhttp.Handler)   { c.r.Handle(p, h) }

func (c chiRouter) Use(mw ...func(stdhttp.Handler) stdhttp.Handler) { c.r.Use(mw...) }

func (c chiRouter) Group(fn func(Router)) {
	c.r.Group(func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

// Route mounts fn under prefix; an empty prefix behaves like Group since chi rejects Route("")
func (c chiRouter) Route(prefix string, fn func(Router)) {
	if prefix == "" || prefix == "/" {
		c.Group(fn)
		return
	}
	c.r.Route(prefix, func(sub chi.Router) { fn(chiRouter{r: sub}) })
}
