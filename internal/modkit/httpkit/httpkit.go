// Package httpkit is the handler vocabulary modules use: return-style JSON
// handlers, route helpers and API versioning over the platform router.
package httpkit

import (
	"net/http"
	"strings"

	phttp "hashjudge/internal/platform/net/http"
	"hashjudge/internal/platform/net/http/bind"
	"hashjudge/internal/platform/net/middleware"
)

type (
	// Router is the platform router seam
	Router = phttp.Router
	// Response is a handler result
	Response = phttp.Response
)

// JSON binds and validates a T from the body, then calls fn; results go out as a 200 envelope
func JSON[T any](fn func(*http.Request, T) (any, error)) http.HandlerFunc {
	return phttp.Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return phttp.Error(err)
		}
		return result(fn(r, in))
	})
}

// Call adapts a body-less handler
func Call(fn func(*http.Request) (any, error)) http.HandlerFunc {
	return phttp.Handle(func(r *http.Request) Response { return result(fn(r)) })
}

func result(out any, err error) Response {
	if err != nil {
		return phttp.Error(err)
	}
	if res, ok := out.(Response); ok {
		return res
	}
	return phttp.OK(out)
}

// Get mounts a body-less GET handler
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Call(fn))
}

// PostJSON mounts a POST handler taking a T body
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(fn))
}

// MountAPI mounts routes under /api/{version} with mw applied to that scope only
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 is MountAPI for v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}

// Protected groups routes behind a bearer token; an empty token leaves them open
func Protected(r Router, token string, fn func(Router)) {
	r.Group(func(g Router) {
		g.Use(middleware.Bearer(token))
		fn(g)
	})
}
