package domain

import "context"

// Source streams dataset rows in batches
type Source interface {
	// Next returns the next non-empty batch, or io.EOF once the input is exhausted
	Next(ctx context.Context) ([]Row, error)
	Close() error
}

// RunnerPort is the external port for an evaluation run
type RunnerPort interface {
	Run(ctx context.Context, src Source) (State, error)
}
