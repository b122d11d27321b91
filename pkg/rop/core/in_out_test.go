package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	items     []int
	completed int
	failAt    int
}

func (r *recordingTarget) Submit(_ context.Context, item int) error {
	if r.failAt != 0 && item == r.failAt {
		return errors.New("refused")
	}
	r.items = append(r.items, item)
	return nil
}

func (r *recordingTarget) Complete() { r.completed++ }

func TestFeed(t *testing.T) {
	t.Parallel()

	target := &recordingTarget{}
	require.NoError(t, Feed[int](context.Background(), target, 1, 2, 3))

	assert.Equal(t, []int{1, 2, 3}, target.items)
	assert.Equal(t, 1, target.completed)
}

func TestFeed_CompletesOnFailure(t *testing.T) {
	t.Parallel()

	target := &recordingTarget{failAt: 2}
	require.Error(t, Feed[int](context.Background(), target, 1, 2, 3))

	assert.Equal(t, []int{1}, target.items)
	assert.Equal(t, 1, target.completed)
}

func TestFeed_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := &recordingTarget{}
	err := Feed[int](ctx, target, 1)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, target.items)
}

func TestDrainBuffered(t *testing.T) {
	t.Parallel()

	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	assert.EqualValues(t, 2, DrainBuffered(ch))
	assert.EqualValues(t, 0, DrainBuffered(ch))

	close(ch)
	assert.EqualValues(t, 0, DrainBuffered(ch))
}

func TestWorkerOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Equal(t, 8, GetWorkerMaxCount(ctx, 8))
	assert.Equal(t, 2, GetWorkerMaxCount(WithWorkerOptions(ctx, 2), 8))
	assert.Equal(t, 8, GetWorkerMaxCount(WithWorkerOptions(ctx, 0), 8))
}
