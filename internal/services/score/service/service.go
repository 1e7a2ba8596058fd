// Package service contains scoring workflows over a shared scorer
package service

import (
	"context"

	"hashjudge/internal/core/langhint"
	"hashjudge/internal/core/scorer"
	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/services/score/domain"

	"golang.org/x/sync/errgroup"
)

// Service defines the service contract for scoring
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	sc      *scorer.Scorer
	workers int
}

// New creates a scoring service; workers bounds batch fan-out and is floored at 1
func New(sc *scorer.Scorer, workers int) *Svc {
	if sc == nil {
		panic("score.Service requires a non nil Scorer")
	}
	if workers < 1 {
		workers = 1
	}
	return &Svc{sc: sc, workers: workers}
}

// Score judges a single text
func (s *Svc) Score(ctx context.Context, in domain.ScoreInput) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	return s.judge(in.Text), nil
}

// ScoreBatch judges every text and keeps request order
func (s *Svc) ScoreBatch(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	if len(in.Texts) == 0 {
		return domain.BatchResult{}, perr.WithField(perr.InvalidArgf("texts must not be empty"), "texts")
	}
	if len(in.Texts) > domain.MaxBatch {
		return domain.BatchResult{}, perr.WithField(perr.InvalidArgf("texts must hold at most %d items", domain.MaxBatch), "texts")
	}

	out := make([]domain.Result, len(in.Texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, text := range in.Texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.judge(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.BatchResult{}, err
	}
	return domain.BatchResult{Count: len(out), Items: out}, nil
}

// Model describes the loaded profiles
func (s *Svc) Model(_ context.Context) (domain.ModelInfo, error) {
	p := s.sc.Primary()
	info := domain.ModelInfo{
		Primary: domain.Profile{Model: p.Model.Meta(), Thresholds: p.Thresholds},
	}
	if sp, ok := s.sc.Secondary(); ok {
		info.Secondary = &domain.Profile{Model: sp.Model.Meta(), Thresholds: sp.Thresholds}
	}
	return info, nil
}

func (s *Svc) judge(text string) domain.Result {
	r := s.sc.Judge(text)
	script, lang := langhint.DetectScriptAndLang(text)
	return domain.Result{
		Score:    r.Score,
		Verdict:  r.Verdict,
		Japanese: r.Japanese,
		Routed:   r.Routed,
		Model:    r.Model,
		Script:   script,
		Lang:     lang,
	}
}
