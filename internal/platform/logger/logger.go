// Package logger holds the process logger. It reads LOG_* straight from the
// environment because the config package logs through it.
package logger

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging type handed around the codebase
type Logger = zerolog.Logger

// Options shapes a logger
type Options struct {
	Level   string // trace|debug|info|warn|error, default info
	Format  string // json|console, default json
	Service string
	Caller  bool
	Writer  io.Writer // default stderr; stdout carries the eval summary
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER
func FromEnv() Options {
	o := Options{
		Level:   env("LOG_LEVEL", "info"),
		Format:  env("LOG_FORMAT", "json"),
		Service: env("LOG_SERVICE", ""),
	}
	o.Caller, _ = strconv.ParseBool(env("LOG_CALLER", "false"))
	return o
}

func env(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// New builds a logger without touching the process root
func New(o Options) Logger {
	w := o.Writer
	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(o.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	c := zerolog.New(w).Level(ParseLevel(o.Level)).With().Timestamp()
	if o.Service != "" {
		c = c.Str("service", o.Service)
	}
	if o.Caller {
		c = c.Caller()
	}
	return c.Logger()
}

// ParseLevel maps a level name; unknown names fall back to info
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

var root atomic.Pointer[Logger]

// Init replaces the process root
func Init(o Options) *Logger {
	l := New(o)
	root.Store(&l)
	return &l
}

// Get returns the process root, building it from env on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	l := New(FromEnv())
	root.CompareAndSwap(nil, &l)
	return root.Load()
}

// Named returns a child of the root tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type reqIDKey struct{}

// WithRequestID stores a request id for C
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, reqIDKey{}, id)
}

// C returns the root logger carrying the request id from ctx, if any
func C(ctx context.Context) *Logger {
	id, _ := ctx.Value(reqIDKey{}).(string)
	if id == "" {
		return Get()
	}
	l := Get().With().Str("request_id", id).Logger()
	return &l
}
