package domain

import "context"

// ServicePort defines the service contract for scoring
type ServicePort interface {
	Score(ctx context.Context, in ScoreInput) (Result, error)
	ScoreBatch(ctx context.Context, in BatchInput) (BatchResult, error)
	Model(ctx context.Context) (ModelInfo, error)
}
