package rop

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	t.Parallel()

	r := Success(42)

	assert.True(t, r.IsSuccess())
	assert.False(t, r.IsCancel())
	assert.False(t, r.IsFailure())
	assert.True(t, r.HasResult())
	assert.Equal(t, 42, r.Result())
	assert.NoError(t, r.Err())
	assert.NotEqual(t, uuid.Nil, r.Id())
	assert.False(t, r.CreatedAt().IsZero())
	assert.NoError(t, ToError(r))
}

func TestFailAndCancel(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	f := Fail[int](boom)
	assert.True(t, f.IsFailure())
	assert.False(t, f.IsCancel())
	assert.False(t, f.HasResult())
	assert.ErrorIs(t, ToError(f), boom)

	c := Cancel[int](context.Canceled)
	assert.True(t, c.IsCancel())
	assert.False(t, c.IsFailure())
	assert.True(t, IsCancellationError(c.Err()))

	cw := CancelWithResult(boom, 7)
	assert.True(t, cw.IsCancelWithResult())
	assert.Equal(t, 7, cw.Result())

	fw := FailWithResult(boom, 3)
	assert.True(t, fw.IsFailure())
	assert.True(t, fw.HasResult())
}

func TestCancelFromKeepsIdentity(t *testing.T) {
	t.Parallel()

	in := Cancel[int](context.Canceled)
	out := CancelFrom[int, string](in)

	assert.Equal(t, in.Id(), out.Id())
	assert.Equal(t, in.CreatedAt(), out.CreatedAt())
	assert.True(t, out.IsCancel())
	assert.False(t, out.HasResult())
}

func TestToErrorOnEmpty(t *testing.T) {
	t.Parallel()

	var r Result[int]
	assert.True(t, r.IsEmpty())
	require.Error(t, ToError(r))
}

func TestGetErrors(t *testing.T) {
	t.Parallel()

	a, b := errors.New("a"), errors.New("b")

	assert.Empty(t, GetErrors(nil))
	assert.Equal(t, []error{a}, GetErrors(a))
	assert.Len(t, GetErrors(errors.Join(a, b)), 2)
	assert.True(t, IsCancellationError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
}
