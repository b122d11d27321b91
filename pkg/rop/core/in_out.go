package core

import (
	"context"
	"iter"
	"slices"
)

// Target is the receiving end of a stage.
type Target[T any] interface {
	Submit(ctx context.Context, item T) error
	Complete()
}

// Feed submits values to target in order and completes it afterwards, also
// when a submission fails.
func Feed[T any](ctx context.Context, target Target[T], values ...T) error {
	return FeedSeq(ctx, target, slices.Values(values))
}

// FeedSeq is Feed over an iterator.
func FeedSeq[T any](ctx context.Context, target Target[T], seq iter.Seq[T]) error {
	defer target.Complete()

	for v := range seq {
		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}
		if err := target.Submit(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// DrainBuffered empties whatever is currently buffered in ch without
// blocking and reports how many items were dropped.
func DrainBuffered[T any](ch <-chan T) int64 {
	var n int64
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}
