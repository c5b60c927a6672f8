// Copyright (c) 2026 Confero. All rights reserved.

/*
Package result provides the tri-state container used by every asynchronous
read in Confero.

A live query emits a sequence of [Of] values over time: exactly one Loading,
followed by any number of Success/Failure snapshots until the subscription is
cancelled. One-shot operations emit a single terminal Success or Failure.

States:

  - Loading: the first value of every stream, no payload.
  - Success: carries the current snapshot payload.
  - Failure: carries an optional underlying cause.

[Map] is the only composition primitive: it transforms the Success payload and
passes Loading/Failure through untouched, so variant identity is always
preserved across layers.
*/
package result

// State identifies which variant an [Of] value holds.
type State int

const (
	// StateLoading marks a read that has started but produced no data yet.
	StateLoading State = iota
	// StateSuccess marks a read that produced a payload.
	StateSuccess
	// StateFailure marks a read that failed.
	StateFailure
)

// Of is a tri-state value produced by asynchronous reads.
//
// # Zero Value
//
// The zero value is Loading, which matches the lifecycle of every stream.
type Of[T any] struct {
	state State
	data  T
	err   error
}

// # Constructors

// Loading returns the Loading variant.
func Loading[T any]() Of[T] {
	return Of[T]{state: StateLoading}
}

// Success wraps a payload in the Success variant.
func Success[T any](data T) Of[T] {
	return Of[T]{state: StateSuccess, data: data}
}

// Failure wraps an error in the Failure variant.
//
// The cause may be nil when a code path synthesizes a failure without an
// originating error (e.g. "no authenticated user").
func Failure[T any](err error) Of[T] {
	return Of[T]{state: StateFailure, err: err}
}

// # Accessors

// State returns the variant identity of the value.
func (o Of[T]) State() State { return o.state }

// IsLoading reports whether the value is the Loading variant.
func (o Of[T]) IsLoading() bool { return o.state == StateLoading }

// IsSuccess reports whether the value is the Success variant.
func (o Of[T]) IsSuccess() bool { return o.state == StateSuccess }

// IsFailure reports whether the value is the Failure variant.
func (o Of[T]) IsFailure() bool { return o.state == StateFailure }

// Data returns the payload and true when the value is Success.
func (o Of[T]) Data() (T, bool) {
	return o.data, o.state == StateSuccess
}

// Err returns the underlying cause of a Failure. It is nil for the other
// variants and may also be nil for a synthesized Failure.
func (o Of[T]) Err() error { return o.err }

// # Composition

// Map transforms the Success payload through fn.
//
// Loading and Failure pass through unchanged: mapping never creates or
// destroys a variant, it only rewrites the payload type.
func Map[T, R any](o Of[T], fn func(T) R) Of[R] {
	switch o.state {
	case StateSuccess:
		return Success(fn(o.data))
	case StateFailure:
		return Of[R]{state: StateFailure, err: o.err}
	default:
		return Loading[R]()
	}
}
