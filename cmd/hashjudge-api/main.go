// Command hashjudge-api serves the scorer over HTTP
package main

import (
	"context"
	"os/signal"
	"syscall"

	"hashjudge/internal/platform/config"
	"hashjudge/internal/platform/logger"
	phttp "hashjudge/internal/platform/net/http"

	"hashjudge/internal/services/api"
	scoremod "hashjudge/internal/services/score/module"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("HASHJUDGE_API_")
	l := logger.Get()

	opts := scoremod.FromConfig(root)
	sc, err := scoremod.LoadScorer(opts)
	if err != nil {
		l.Fatal().Err(err).Str("model", opts.Model).Msg("model load failed")
	}
	l.Info().
		Str("model", sc.Primary().Model.Name).
		Bool("japanese_model", opts.ModelJA != "").
		Msg("scorer ready")

	mux, r := phttp.NewRouter()
	api.Mount(r, api.Options{
		Config:         apiCfg,
		Logger:         l,
		Scorer:         sc,
		Workers:        opts.Workers,
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		Token:          apiCfg.MayString("TOKEN", ""),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HASHJUDGE_API_ADDR and the timeouts are read by the server
	if err := phttp.NewServer(apiCfg, mux).Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
