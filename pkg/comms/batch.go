package comms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/comms-client/internal/constants"
)

const defaultBatchConcurrency = 5

// BatchItem is one independent call of a batch.
type BatchItem[In any] struct {
	ID    string
	Input In
}

// BatchResult is the outcome of one BatchItem.
type BatchResult[Out any] struct {
	ID       string
	Value    Out
	Error    error
	Duration time.Duration
}

// Success reports whether the item's call succeeded.
func (r BatchResult[Out]) Success() bool {
	return r.Error == nil
}

// BatchExecutor runs independent calls with bounded concurrency. A failed item
// never cancels the others.
type BatchExecutor struct {
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	return &BatchExecutor{
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-item timeout. Zero disables it.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Concurrency returns the maximum number of calls in flight.
func (b *BatchExecutor) Concurrency() int {
	return b.concurrency
}

// RunBatch calls fn for every item and returns results in item order.
func RunBatch[In, Out any](ctx context.Context, b *BatchExecutor, items []BatchItem[In], fn func(context.Context, In) (Out, error)) []BatchResult[Out] {
	results := make([]BatchResult[Out], len(items))

	var group errgroup.Group

	group.SetLimit(b.concurrency)

	for index, item := range items {
		group.Go(func() error {
			itemCtx := ctx

			if b.timeout > 0 {
				var cancel context.CancelFunc

				itemCtx, cancel = context.WithTimeout(ctx, b.timeout)
				defer cancel()
			}

			start := time.Now()
			value, err := fn(itemCtx, item.Input)

			results[index] = BatchResult[Out]{
				ID:       item.ID,
				Value:    value,
				Error:    err,
				Duration: time.Since(start),
			}

			return nil
		})
	}

	_ = group.Wait()

	return results
}

// BatchErrors joins the errors of failed results, each prefixed by its ID.
// It returns nil when every item succeeded.
func BatchErrors[Out any](results []BatchResult[Out]) error {
	var errs []error

	for _, result := range results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", result.ID, result.Error))
		}
	}

	return errors.Join(errs...)
}
