package core

import (
	"context"

	"github.com/ib-77/railyard/pkg/rop"
)

// CancellationHandlers observe a locomotive that stops before its input is
// exhausted. Every handler is optional.
type CancellationHandlers[In any] struct {
	// OnCancel gets the input channel after the loop stopped early. Anything
	// still buffered there will never be processed.
	OnCancel func(ctx context.Context, inputCh <-chan In)
	// OnCancelUnprocessed gets an item taken off the input whose processing
	// was cut short by the cancellation.
	OnCancelUnprocessed func(ctx context.Context, unprocessed In)
	// OnCancelProcessed gets an item whose output was produced but could not
	// be delivered.
	OnCancelProcessed func(ctx context.Context, in In)
}

// Locomotive drives one stage. It takes items from inputCh in arrival order,
// runs engine on each and hands every successful output to deliver before
// taking the next item, so outputs leave in the order inputs arrived.
//
// It returns nil once inputCh is closed and drained, the context cause when
// ctx is done, the outcome error when engine does not succeed, or the error
// returned by deliver. processed counts delivered outputs.
func Locomotive[In, Out any](ctx context.Context, inputCh <-chan In,
	engine func(ctx context.Context, input In) rop.Result[Out],
	deliver func(ctx context.Context, out Out) error,
	handlers CancellationHandlers[In]) (processed int64, err error) {

	stop := func() {
		if handlers.OnCancel != nil {
			handlers.OnCancel(ctx, inputCh)
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return processed, context.Cause(ctx)
		case in, ok := <-inputCh:
			if !ok {
				return processed, nil
			}

			if ctx.Err() != nil {
				if handlers.OnCancelUnprocessed != nil {
					handlers.OnCancelUnprocessed(ctx, in)
				}
				stop()
				return processed, context.Cause(ctx)
			}

			res := engine(ctx, in)
			if !res.IsSuccess() {
				if res.IsCancel() && handlers.OnCancelUnprocessed != nil {
					handlers.OnCancelUnprocessed(ctx, in)
				}
				stop()
				return processed, rop.ToError(res)
			}

			if err := deliver(ctx, res.Result()); err != nil {
				if handlers.OnCancelProcessed != nil {
					handlers.OnCancelProcessed(ctx, in)
				}
				stop()
				return processed, err
			}
			processed++
		}
	}
}
