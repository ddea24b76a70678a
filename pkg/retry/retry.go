// Package retry provides a bounded-attempt retry helper for transient
// infrastructure failures (broker dials, storage deletes).
package retry

import (
	"context"
	"time"
)

// Do runs fn up to attempts times, waiting delay between attempts. It
// returns nil on the first success, the context error if the context is
// cancelled while waiting, and otherwise the last error from fn.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
