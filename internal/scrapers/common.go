package scrapers

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoMoreListings signals that a page came back empty and scraping can stop.
var ErrNoMoreListings = errors.New("no more listings")

// Retry calls fn up to cfg.Attempts times with exponential backoff.
// Non-positive attempt counts mean a single attempt, so fn always runs.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.InitialBackoff
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := fn(); err != nil {
			if attempt == attempts {
				return err
			}
			select {
			case <-time.After(backoff):
				backoff *= 2
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		} else {
			return nil
		}
	}
	return nil
}

// StartWorkerPool runs workerCount goroutines which process tasks from the
// tasks channel until it is drained. If a worker returns ErrNoMoreListings
// the pool stops early; the first error seen is returned.
func StartWorkerPool[T any](
	ctx context.Context,
	tasks <-chan T,
	workerCount int,
	fn func(ctx context.Context, task T) error,
) error {
	var wg sync.WaitGroup
	errCh := make(chan error, workerCount)
	doneCh := make(chan struct{})
	var doneOnce sync.Once

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-doneCh:
					return
				case task, ok := <-tasks:
					if !ok {
						return
					}
					err := fn(ctx, task)
					if err != nil {
						if errors.Is(err, ErrNoMoreListings) {
							select {
							case errCh <- err:
							default:
							}
							// Signal an immediate stop to all goroutines.
							// Several workers can hit the sentinel at the
							// same time, so the close must happen once.
							doneOnce.Do(func() { close(doneCh) })
							return
						}
						select {
						case errCh <- err:
						default:
						}
					}
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for e := range errCh {
		return e
	}
	return nil
}
