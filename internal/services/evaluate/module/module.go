// Package module wires a dataset, the scorer and the evaluation service into one run
package module

import (
	"context"
	"time"

	"hashjudge/internal/adapters/dataset"
	"hashjudge/internal/core/scorer"
	"hashjudge/internal/modkit"
	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/services/evaluate/domain"
	"hashjudge/internal/services/evaluate/report"
	"hashjudge/internal/services/evaluate/service"

	"github.com/google/uuid"
)

// Module runs one evaluation
type Module struct {
	deps   modkit.Deps
	opts   Options
	runner domain.RunnerPort
	sc     *scorer.Scorer

	// open is the dataset seam; tests swap it for an in-memory source
	open func(ctx context.Context, input string, opt dataset.Options) (domain.Source, error)
}

// New validates o and loads the models. No env is consulted here: o is final.
// Model and threshold problems surface before any row is read.
func New(deps modkit.Deps, o Options) (*Module, error) {
	o, err := o.Validate()
	if err != nil {
		return nil, perr.WithOp(err, "evaluate.new")
	}

	files := scorer.DefaultFiles(o.Model, o.ModelJA)
	files.HumanMax, files.AIMin = o.HumanThreshold, o.AIThreshold
	files.HumanMaxJA, files.AIMinJA = o.HumanThresholdJA, o.AIThresholdJA
	sc, err := scorer.Load(files)
	if err != nil {
		return nil, err
	}

	return &Module{
		deps: deps,
		opts: o,
		runner: service.New(sc, service.Config{
			Workers:       o.Workers,
			MaxRows:       o.MaxRows,
			ProgressEvery: o.ProgressEvery,
		}),
		sc:   sc,
		open: dataset.Open,
	}, nil
}

// Options returns the options in effect
func (m *Module) Options() Options { return m.opts }

// Scorer returns the loaded scorer
func (m *Module) Scorer() *scorer.Scorer { return m.sc }

// Evaluate opens the configured dataset, runs the evaluation and builds the summary
// A read failure aborts the run and no summary is returned.
func (m *Module) Evaluate(ctx context.Context) (report.Summary, error) {
	start := time.Now()
	src, err := m.open(ctx, m.opts.Input, dataset.Options{
		Batch: m.opts.Batch,
		Table: m.opts.Table,
		Log:   m.deps.Log,
	})
	if err != nil {
		return report.Summary{}, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			m.deps.Log.Warn().Err(cerr).Msg("dataset close failed")
		}
	}()

	st, err := m.runner.Run(ctx, src)
	if err != nil {
		return report.Summary{}, err
	}

	return report.Build(report.Run{
		ID:        uuid.NewString(),
		Input:     dataset.Redact(m.opts.Input),
		MaxRows:   m.opts.MaxRows,
		Workers:   m.opts.Workers,
		BatchSize: m.opts.Batch,
		Duration:  time.Since(start),
	}, m.sc, st), nil
}
