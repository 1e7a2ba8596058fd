// Package config reads settings from environment variables under a prefix.
// Unset or blank keys yield the caller's default; unparsable values log a
// warning and also yield the default.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"hashjudge/internal/platform/logger"
)

// Conf is a prefixed view of the environment, e.g. New().Prefix("HASHJUDGE_EVAL_")
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the full variable name for k
func (c Conf) Key(k string) string { return c.prefix + k }

// Lookup returns the trimmed value and whether it is set and non-blank
func (c Conf) Lookup(k string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.Key(k)))
	return v, v != ""
}

// MayString returns the value or def
func (c Conf) MayString(k, def string) string {
	if v, ok := c.Lookup(k); ok {
		return v
	}
	return def
}

// MayInt returns the value or def
func (c Conf) MayInt(k string, def int) int { return may(c, k, def, strconv.Atoi) }

// MayFloat64 returns the value or def
func (c Conf) MayFloat64(k string, def float64) float64 {
	return may(c, k, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def
func (c Conf) MayBool(k string, def bool) bool { return may(c, k, def, strconv.ParseBool) }

// MayDuration returns the value or def; values look like 250ms or 30s
func (c Conf) MayDuration(k string, def time.Duration) time.Duration {
	return may(c, k, def, time.ParseDuration)
}

func may[T any](c Conf, k string, def T, parse func(string) (T, error)) T {
	s, ok := c.Lookup(k)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Named("config").Warn().Str("key", c.Key(k)).Str("value", s).Any("default", def).
			Msg("unparsable value, using default")
		return def
	}
	return v
}
