package events

import (
	"context"
	"fmt"
	"time"
)

// Deliver publishes event without inheriting ctx's cancellation, so a client
// hanging up does not abort delivery. It waits at most limit and never past
// half of the time left before ctx's deadline. A publisher still running when
// the budget is spent keeps its context and is left to finish on its own.
func Deliver(ctx context.Context, p Publisher, event Event, limit time.Duration) error {
	budget := limit
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline) / 2; remaining < budget {
			budget = remaining
		}
	}
	if budget <= 0 {
		return fmt.Errorf("publish %s: %w", event.ID, context.DeadlineExceeded)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), budget)
	done := make(chan error, 1)
	go func() {
		defer cancel()
		done <- p.Publish(pubCtx, event)
	}()

	select {
	case err := <-done:
		return err
	case <-pubCtx.Done():
		select {
		case err := <-done:
			return err
		default:
		}
		return fmt.Errorf("publish %s: %w", event.ID, pubCtx.Err())
	}
}
