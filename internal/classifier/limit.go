package classifier

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Limit wraps c so at most n classifications run at once. Callers waiting
// for a slot give up when ctx ends and receive ErrUnavailable.
// Values of n below 1 return c unchanged.
func Limit(c Classifier, n int) Classifier {
	if n < 1 {
		return c
	}
	return &limited{
		next: c,
		sem:  semaphore.NewWeighted(int64(n)),
	}
}

type limited struct {
	next Classifier
	sem  *semaphore.Weighted
}

func (l *limited) Classify(ctx context.Context, message string) (Result, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return Result{}, fmt.Errorf("%w: waiting for slot: %w", ErrUnavailable, err)
	}
	defer l.sem.Release(1)

	return l.next.Classify(ctx, message)
}
