// Copyright (c) 2026 Confero. All rights reserved.

/*
Package live implements the push-based subscription layer for Confero.

It replaces the implicit snapshot-listener model of a managed document store
with an explicit, cancellable stream abstraction:

  - Broker: fans mutation notifications out over Redis Pub/Sub channels.
  - Watch: turns a query function plus a notification channel into a stream
    of [result.Of] snapshot values.

Lifecycle:

A watch stream emits Loading exactly once, then an initial Success snapshot,
then one Success (or Failure) per notification. The stream closes when the
consumer's context is cancelled — there is no other termination path and no
automatic retry: a Failure is reported and the stream simply waits for the
next notification.
*/
package live

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/confero/confero/pkg/result"
)

// notificationBuffer bounds how many un-consumed notifications are held
// before older ones are coalesced (dropped).
const notificationBuffer = 8

// # Broker

// Broker publishes and subscribes to mutation notifications via Redis Pub/Sub.
type Broker struct {
	client *redis.Client
	logger *slog.Logger
}

// NewBroker constructs a [Broker] on top of an existing Redis client.
func NewBroker(client *redis.Client, logger *slog.Logger) *Broker {
	return &Broker{client: client, logger: logger}
}

/*
Notify publishes a change notification on the given channel.

Description: Fire-and-forget. A lost notification only delays a snapshot
until the next mutation, so publish errors are logged, never propagated —
the triggering write has already committed.

Parameters:
  - context: context.Context
  - channel: string (see constants.LiveChannel*)
*/
func (broker *Broker) Notify(context context.Context, channel string) {
	if err := broker.client.Publish(context, channel, "1").Err(); err != nil {
		broker.logger.Warn("live_notify_failed",
			slog.String("channel", channel),
			slog.Any("error", err),
		)
	}
}

/*
Notifications subscribes to a channel and returns a signal stream.

Description: The payload of a notification carries no data — consumers
re-query on every signal. The subscription is closed when ctx is cancelled.

Parameters:
  - ctx: context.Context governing the subscription lifetime

Returns:
  - <-chan struct{}: One signal per received notification
*/
func (broker *Broker) Notifications(ctx context.Context, channel string) <-chan struct{} {
	signals := make(chan struct{}, notificationBuffer)
	pubsub := broker.client.Subscribe(ctx, channel)

	go func() {
		defer close(signals)
		defer func() { _ = pubsub.Close() }()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				select {
				case signals <- struct{}{}:
				default:
					// Buffer full: the pending signal already forces a
					// re-query, this one adds nothing.
				}
			}
		}
	}()

	return signals
}

// # Watch Streams

/*
Watch turns a snapshot query into a live stream of [result.Of] values.

Description: Emits Loading first, then the initial snapshot, then re-runs
the query once per signal. Query errors become Failure values on the same
stream; the stream itself stays open until ctx is cancelled, at which point
the returned channel is closed.

Parameters:
  - ctx: context.Context tied to the consumer's lifetime
  - signals: notification stream from [Broker.Notifications]
  - query: func executing one snapshot read

Returns:
  - <-chan result.Of[T]: The live snapshot stream
*/
func Watch[T any](ctx context.Context, signals <-chan struct{}, query func(context.Context) (T, error)) <-chan result.Of[T] {
	stream := make(chan result.Of[T], 1)

	emit := func(value result.Of[T]) bool {
		select {
		case stream <- value:
			return true
		case <-ctx.Done():
			return false
		}
	}

	snapshot := func() result.Of[T] {
		data, err := query(ctx)
		if err != nil {
			return result.Failure[T](err)
		}
		return result.Success(data)
	}

	go func() {
		defer close(stream)

		if !emit(result.Loading[T]()) {
			return
		}

		// Initial snapshot before any mutation arrives.
		if !emit(snapshot()) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				if !emit(snapshot()) {
					return
				}
			}
		}
	}()

	return stream
}
