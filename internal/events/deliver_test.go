package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publisherFunc func(ctx context.Context, event Event) error

func (f publisherFunc) Publish(ctx context.Context, event Event) error { return f(ctx, event) }

func TestDeliver_ReturnsPublisherResult(t *testing.T) {
	boom := errors.New("sink down")
	err := Deliver(context.Background(), publisherFunc(func(context.Context, Event) error {
		return boom
	}), NewEvent(EventSignedUp, "Chess Club", "a@mergington.edu"), time.Second)

	assert.ErrorIs(t, err, boom)
}

func TestDeliver_IgnoresParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var publishErr error
	err := Deliver(ctx, publisherFunc(func(ctx context.Context, _ Event) error {
		publishErr = ctx.Err()
		return nil
	}), NewEvent(EventSignedUp, "Chess Club", "a@mergington.edu"), time.Second)

	require.NoError(t, err)
	assert.NoError(t, publishErr)
}

func TestDeliver_UsesHalfOfRemainingDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var budget time.Duration
	err := Deliver(ctx, publisherFunc(func(ctx context.Context, _ Event) error {
		if deadline, ok := ctx.Deadline(); ok {
			budget = time.Until(deadline)
		}
		return nil
	}), NewEvent(EventSignedUp, "Chess Club", "a@mergington.edu"), 5*time.Second)

	require.NoError(t, err)
	assert.LessOrEqual(t, budget, 100*time.Millisecond)
	assert.Positive(t, budget)
}

func TestDeliver_AbandonsPublisherThatIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := Deliver(ctx, publisherFunc(func(context.Context, Event) error {
		<-release
		return nil
	}), NewEvent(EventUnregistered, "Chess Club", "a@mergington.edu"), time.Second)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 180*time.Millisecond)
	assert.NoError(t, ctx.Err(), "returned after the caller's deadline")
}

func TestDeliver_NoTimeLeft(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	called := false
	err := Deliver(ctx, publisherFunc(func(context.Context, Event) error {
		called = true
		return nil
	}), NewEvent(EventSignedUp, "Chess Club", "a@mergington.edu"), time.Second)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}
