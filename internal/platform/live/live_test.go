// Copyright (c) 2026 Confero. All rights reserved.

package live_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confero/confero/internal/platform/live"
	"github.com/confero/confero/pkg/result"
)

// receive waits for the next stream value with a safety timeout so a broken
// stream fails the test instead of hanging it.
func receive[T any](t *testing.T, stream <-chan result.Of[T]) result.Of[T] {
	t.Helper()
	select {
	case value, ok := <-stream:
		require.True(t, ok, "stream closed unexpectedly")
		return value
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream value")
		return result.Of[T]{}
	}
}

/*
TestWatch_EmitsLoadingThenInitialSnapshot verifies the stream lifecycle:
exactly one Loading, then the first snapshot without any notification.
*/
func TestWatch_EmitsLoadingThenInitialSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan struct{})
	stream := live.Watch(ctx, signals, func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})

	assert.True(t, receive(t, stream).IsLoading())

	snapshot := receive(t, stream)
	data, ok := snapshot.Data()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, data)
}

/*
TestWatch_RequeriesOnSignal checks that each notification triggers a fresh
snapshot reflecting the mutated state.
*/
func TestWatch_RequeriesOnSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counter := 0
	signals := make(chan struct{}, 1)
	stream := live.Watch(ctx, signals, func(context.Context) (int, error) {
		counter++
		return counter, nil
	})

	receive(t, stream) // loading
	first, _ := receive(t, stream).Data()
	assert.Equal(t, 1, first)

	signals <- struct{}{}
	second, _ := receive(t, stream).Data()
	assert.Equal(t, 2, second)
}

/*
TestWatch_QueryErrorBecomesFailure ensures query errors surface as Failure
values and do not terminate the stream.
*/
func TestWatch_QueryErrorBecomesFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cause := errors.New("connection reset")
	calls := 0
	signals := make(chan struct{}, 1)
	stream := live.Watch(ctx, signals, func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, cause
		}
		return 42, nil
	})

	receive(t, stream) // loading

	failure := receive(t, stream)
	require.True(t, failure.IsFailure())
	assert.Same(t, cause, failure.Err())

	// The stream recovers on the next notification.
	signals <- struct{}{}
	data, ok := receive(t, stream).Data()
	require.True(t, ok)
	assert.Equal(t, 42, data)
}

/*
TestWatch_CancellationClosesStream verifies unsubscribe semantics: cancelling
the consumer context closes the channel.
*/
func TestWatch_CancellationClosesStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan struct{})
	stream := live.Watch(ctx, signals, func(context.Context) (int, error) {
		return 1, nil
	})

	receive(t, stream) // loading
	receive(t, stream) // initial snapshot

	cancel()

	select {
	case _, open := <-stream:
		assert.False(t, open, "stream should close after cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after cancellation")
	}
}
