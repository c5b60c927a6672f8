// Copyright (c) 2026 Confero. All rights reserved.

package result_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confero/confero/pkg/result"
)

/*
TestMap_PreservesVariant verifies that Map never changes the variant identity:
Loading stays Loading, Failure keeps its cause, and only Success payloads are
rewritten.
*/
func TestMap_PreservesVariant(t *testing.T) {
	double := func(n int) int { return n * 2 }

	t.Run("loading_passes_through", func(t *testing.T) {
		mapped := result.Map(result.Loading[int](), double)
		assert.True(t, mapped.IsLoading())
	})

	t.Run("failure_keeps_cause", func(t *testing.T) {
		cause := errors.New("subscription dropped")
		mapped := result.Map(result.Failure[int](cause), double)

		require.True(t, mapped.IsFailure())
		assert.Same(t, cause, mapped.Err())
	})

	t.Run("failure_with_nil_cause", func(t *testing.T) {
		mapped := result.Map(result.Failure[int](nil), double)

		require.True(t, mapped.IsFailure())
		assert.Nil(t, mapped.Err())
	})

	t.Run("success_applies_fn", func(t *testing.T) {
		mapped := result.Map(result.Success(21), double)

		data, ok := mapped.Data()
		require.True(t, ok)
		assert.Equal(t, 42, data)
	})
}

/*
TestMap_ChangesPayloadType checks that Map can rewrite the payload type while
the variant survives.
*/
func TestMap_ChangesPayloadType(t *testing.T) {
	mapped := result.Map(result.Success(7), strconv.Itoa)

	data, ok := mapped.Data()
	require.True(t, ok)
	assert.Equal(t, "7", data)

	failed := result.Map(result.Failure[int](errors.New("boom")), strconv.Itoa)
	assert.True(t, failed.IsFailure())
}

/*
TestZeroValue_IsLoading confirms the documented zero-value contract.
*/
func TestZeroValue_IsLoading(t *testing.T) {
	var o result.Of[string]

	assert.True(t, o.IsLoading())
	assert.Equal(t, result.StateLoading, o.State())

	_, ok := o.Data()
	assert.False(t, ok)
	assert.Nil(t, o.Err())
}
