// Package service implements the evaluate service
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"hashjudge/internal/core/judge"
	"hashjudge/internal/core/normalize"
	"hashjudge/internal/core/scorer"
	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/logger"
	"hashjudge/internal/services/evaluate/domain"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// Config for the evaluate service
type Config struct {
	Workers       int // 1 = sequential
	MaxRows       int // 0 = unlimited
	ProgressEvery int // batches between progress lines, 0 disables
}

// Service implements domain.RunnerPort
type Service struct {
	Scorer *scorer.Scorer
	Cfg    Config

	norm  *normalize.Normalizer
	log   *logger.Logger
	score func([]domain.Sample) domain.Partial
	peak  int // most tasks in flight during the last parallel run
}

// New constructs a new evaluate service
func New(sc *scorer.Scorer, cfg Config) *Service {
	w := cfg.Workers
	if w <= 0 {
		w = 1
	}
	mr := cfg.MaxRows
	if mr < 0 {
		mr = 0
	}
	s := &Service{
		Scorer: sc,
		Cfg: Config{
			Workers:       w,
			MaxRows:       mr,
			ProgressEvery: cfg.ProgressEvery,
		},
		norm: normalize.New(),
		log:  logger.Named("evaluate"),
	}
	s.score = func(xs []domain.Sample) domain.Partial { return ScoreBatch(s.Scorer, xs) }
	return s
}

// InFlightCap is the most tasks the controller keeps submitted but unmerged
func InFlightCap(workers int) int {
	return max(2, 3*workers)
}

// Select validates rows in order and returns at most limit samples (limit < 0 = no limit)
// Rows after the limit is reached are neither accepted nor counted as skipped.
func Select(rows []domain.Row, norm *normalize.Normalizer, limit int) ([]domain.Sample, int64) {
	out := make([]domain.Sample, 0, len(rows))
	var skipped int64
	for _, r := range rows {
		if limit >= 0 && len(out) >= limit {
			break
		}
		label, ok := judge.ParseLabel(r.Label)
		if !ok {
			skipped++
			continue
		}
		n := norm.Normalize(r.Text)
		if n == "" {
			skipped++
			continue
		}
		out = append(out, domain.Sample{Label: label, Text: r.Text, Normalized: n})
	}
	return out, skipped
}

// ScoreBatch is the worker body: score, classify and tally one batch
func ScoreBatch(sc *scorer.Scorer, xs []domain.Sample) domain.Partial {
	var p domain.Partial
	for i := range xs {
		p.Add(xs[i].Label, sc.JudgeNormalized(xs[i].Text, xs[i].Normalized))
	}
	return p
}

// Run streams src to exhaustion (or the row budget) and returns the merged state
func (s *Service) Run(ctx context.Context, src domain.Source) (domain.State, error) {
	start := time.Now()
	s.log.Info().
		Int("workers", s.Cfg.Workers).
		Int("max_rows", s.Cfg.MaxRows).
		Msg("evaluation started")

	var (
		st  domain.State
		err error
	)
	if s.Cfg.Workers == 1 {
		err = s.runSequential(ctx, src, &st)
	} else {
		err = s.runParallel(ctx, src, &st)
	}
	if err != nil {
		return domain.State{}, err
	}

	s.log.Info().
		Str("processed", humanize.Comma(st.Total)).
		Str("skipped", humanize.Comma(st.Skipped)).
		Int64("batches", st.Batches).
		Dur("took", time.Since(start)).
		Msg("evaluation finished")
	return st, nil
}

func (s *Service) runSequential(ctx context.Context, src domain.Source, st *domain.State) error {
	return s.stream(ctx, src, st, func(xs []domain.Sample) error {
		st.Merge(s.score(xs))
		return nil
	})
}

func (s *Service) runParallel(ctx context.Context, src domain.Source, st *domain.State) error {
	limit := InFlightCap(s.Cfg.Workers)
	tasks := make(chan []domain.Sample, limit)
	results := make(chan domain.Partial, limit)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.Cfg.Workers; i++ {
		g.Go(func() error {
			for xs := range tasks {
				if err := gctx.Err(); err != nil {
					return err
				}
				// results has room for every in-flight task, so this never blocks
				results <- s.score(xs)
			}
			return nil
		})
	}

	inflight := 0
	s.peak = 0
	mergeReady := func() {
		for {
			select {
			case p := <-results:
				st.Merge(p)
				inflight--
			default:
				return
			}
		}
	}

	err := s.stream(ctx, src, st, func(xs []domain.Sample) error {
		if inflight >= limit {
			select {
			case p := <-results:
				st.Merge(p)
				inflight--
			case <-ctx.Done():
				return ctx.Err()
			}
			mergeReady()
		}
		tasks <- xs
		inflight++
		s.peak = max(s.peak, inflight)
		return nil
	})
	close(tasks)

	if err == nil {
		for inflight > 0 {
			select {
			case p := <-results:
				st.Merge(p)
				inflight--
			case <-ctx.Done():
				err = ctx.Err()
			}
			if err != nil {
				break
			}
		}
	}
	if werr := g.Wait(); err == nil {
		err = werr
	}
	s.log.Debug().Int("peak_in_flight", s.peak).Int("cap", limit).Msg("workers drained")
	return err
}

// stream reads, filters and hands batches to submit until EOF or the row budget is spent
func (s *Service) stream(ctx context.Context, src domain.Source, st *domain.State, submit func([]domain.Sample) error) error {
	accepted := 0
	for {
		if s.Cfg.MaxRows > 0 && accepted >= s.Cfg.MaxRows {
			s.log.Debug().Int("max_rows", s.Cfg.MaxRows).Msg("row budget reached")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if _, ok := perr.As(err); ok {
				return err
			}
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "read dataset batch")
		}

		limit := -1
		if s.Cfg.MaxRows > 0 {
			limit = s.Cfg.MaxRows - accepted
		}
		xs, skipped := Select(rows, s.norm, limit)
		st.Skipped += skipped
		st.Batches++
		accepted += len(xs)

		if len(xs) > 0 {
			if err := submit(xs); err != nil {
				return err
			}
		}

		if s.Cfg.ProgressEvery > 0 && st.Batches%int64(s.Cfg.ProgressEvery) == 0 {
			s.log.Info().
				Int64("batches", st.Batches).
				Str("accepted", humanize.Comma(int64(accepted))).
				Str("skipped", humanize.Comma(st.Skipped)).
				Msg("progress")
		}
	}
}
