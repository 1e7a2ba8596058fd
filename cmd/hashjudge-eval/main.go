// Command hashjudge-eval scores a labelled dataset and writes a summary
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hashjudge/internal/modkit"
	"hashjudge/internal/platform/config"
	"hashjudge/internal/platform/logger"

	evalmod "hashjudge/internal/services/evaluate/module"
	"hashjudge/internal/services/evaluate/report"
)

func main() {
	root := config.New()
	l := logger.Get()

	// env (HASHJUDGE_EVAL_*) fills the flag defaults; a flag given explicitly replaces it
	o := evalmod.FromConfig(root)
	o.Bind(flag.CommandLine)
	output := flag.String("output", "data/processed/detector_eval_summary.json", "summary JSON path (parent dirs are created)")
	format := flag.String("format", report.FormatJSON, "stdout echo format: json|yaml")
	flag.Parse()

	switch *format {
	case report.FormatJSON, report.FormatYAML:
	default:
		l.Fatal().Str("format", *format).Msg("bad -format (json|yaml)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	em, err := evalmod.New(modkit.Deps{Cfg: root, Log: *l}, o)
	if err != nil {
		l.Fatal().Err(err).Msg("evaluate setup failed")
	}

	summary, err := em.Evaluate(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("evaluate failed")
	}

	if err := report.WriteFile(*output, summary); err != nil {
		l.Fatal().Err(err).Msg("write summary failed")
	}
	if err := report.Encode(os.Stdout, summary, *format); err != nil {
		l.Fatal().Err(err).Msg("echo summary failed")
	}
	fmt.Printf("summary=%s\n", *output)
}
