// Package api assembles the scoring HTTP API from its modules
package api

import (
	"context"
	"strings"
	"time"

	"hashjudge/internal/core/scorer"
	"hashjudge/internal/modkit"
	"hashjudge/internal/modkit/httpkit"
	"hashjudge/internal/platform/config"
	"hashjudge/internal/platform/logger"
	phttp "hashjudge/internal/platform/net/http"
	"hashjudge/internal/platform/net/middleware"

	metahttp "hashjudge/internal/services/api/meta/http"
	metamod "hashjudge/internal/services/api/meta/module"
	scoremod "hashjudge/internal/services/score/module"
)

// Options are the API options
type Options struct {
	// Config is read for CORS_ORIGINS, REQUEST_TIMEOUT, MAX_IN_FLIGHT and SLOW_REQUEST
	Config         config.Conf
	Logger         *logger.Logger
	Scorer         *scorer.Scorer
	Workers        int
	EnableProfiler bool
	// Token, when set, is the bearer secret required by the scoring routes
	Token string
}

// modelCheck reports ready once a primary model is loaded
type modelCheck struct{ sc *scorer.Scorer }

func (c modelCheck) Ping(context.Context) error {
	if c.sc == nil || c.sc.Primary().Model == nil {
		return errNoModel
	}
	return nil
}

// Mount installs the root middleware chain and every route on r; call it before anything else touches r
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	r.Use(middleware.Stack(middleware.StackOptions{
		Origins:     splitCSV(opt.Config.MayString("CORS_ORIGINS", "")),
		Timeout:     opt.Config.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxInFlight: opt.Config.MayInt("MAX_IN_FLIGHT", 0),
		Slow:        opt.Config.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
	})...)

	meta := metamod.New(deps, metamod.Options{
		ServiceName: "hashjudge-api",
		Checks:      map[string]metahttp.Pinger{"model": modelCheck{sc: opt.Scorer}},
	})
	score := scoremod.New(deps, opt.Scorer, opt.Workers)

	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	httpkit.MountAPIV1(r, nil, func(api httpkit.Router) {
		meta.MountRoutes(api)
		httpkit.Protected(api, opt.Token, score.MountRoutes)
	})

	deps.Log.Info().
		Strs("modules", []string{meta.Name(), score.Name()}).
		Bool("auth", opt.Token != "").
		Bool("profiler", opt.EnableProfiler).
		Msg("api mounted")
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
