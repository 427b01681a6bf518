package util

import (
	"context"
	"time"
)

// Retry calls fn up to attempts times, waiting delay between failures. The last
// error is returned when every attempt fails; ctx cancellation ends the wait early.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		if err := Sleep(ctx, delay); err != nil {
			return err
		}
	}

	return err
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
