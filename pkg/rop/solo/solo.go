package solo

import (
	"context"

	"github.com/ib-77/railyard/pkg/rop"
)

func Succeed[T any](input T) rop.Result[T] {
	return rop.Success(input)
}

func Fail[T any](err error) rop.Result[T] {
	return rop.Fail[T](err)
}

func Cancel[T any](err error) rop.Result[T] {
	return rop.Cancel[T](err)
}

// Try runs onTryExecute on a successful input. A context that is already done
// short-circuits into a cancellation without calling the function.
func Try[In any, Out any](ctx context.Context, input rop.Result[In],
	onTryExecute func(ctx context.Context, r In) (Out, error)) rop.Result[Out] {

	if !input.IsSuccess() {
		return carry[In, Out](input)
	}

	if err := ctx.Err(); err != nil {
		return rop.Cancel[Out](context.Cause(ctx))
	}

	out, err := onTryExecute(ctx, input.Result())
	if err != nil {
		return rop.Fail[Out](err)
	}

	return rop.Success(out)
}

func Map[In any, Out any](ctx context.Context,
	input rop.Result[In],
	onSuccess func(ctx context.Context, r In) Out) rop.Result[Out] {

	if input.IsSuccess() {
		return rop.Success(onSuccess(ctx, input.Result()))
	}
	return carry[In, Out](input)
}

func Tee[T any](ctx context.Context,
	input rop.Result[T],
	onSuccess func(ctx context.Context, r rop.Result[T])) rop.Result[T] {

	if input.IsSuccess() {
		onSuccess(ctx, input)
	}

	return input
}

func Finally[In, Out any](ctx context.Context, input rop.Result[In],
	onSuccess func(ctx context.Context, r In) Out,
	onError func(ctx context.Context, err error) Out,
	onCancel func(ctx context.Context, err error) Out) Out {

	switch {
	case input.IsSuccess():
		return onSuccess(ctx, input.Result())
	case input.IsCancel():
		return onCancel(ctx, input.Err())
	default:
		return onError(ctx, input.Err())
	}
}

func carry[In, Out any](input rop.Result[In]) rop.Result[Out] {
	if input.IsCancel() {
		return rop.Cancel[Out](input.Err())
	}
	return rop.Fail[Out](input.Err())
}
