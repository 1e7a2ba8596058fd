// Package middleware holds the HTTP chain shared by every route: request ids,
// access logging, panic recovery, CORS, timeouts and bearer auth.
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// StackOptions shapes Stack
type StackOptions struct {
	Origins     []string      // CORS origins, default any
	Timeout     time.Duration // per request deadline, default 30s
	MaxInFlight int           // concurrent requests before 503; 0 means unlimited
	Slow        time.Duration // access log warns at or above this; 0 disables
}

// Stack returns the root chain in the order it must run
func Stack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	mw := []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		AccessLog(o.Slow),
		Recover,
		CORS(o.Origins),
		chimw.Heartbeat("/healthz"),
		chimw.NoCache,
		chimw.Compress(flate.BestSpeed),
		chimw.Timeout(o.Timeout),
	}
	if o.MaxInFlight > 0 {
		mw = append(mw, chimw.Throttle(o.MaxInFlight))
	}
	return mw
}

// CORS allows browser callers from origins; none means any
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
