package matrix

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/ib-77/railyard/pkg/rop"
	"github.com/ib-77/railyard/pkg/rop/core"
)

// Multiply returns the product a·b. a.Cols() must equal b.Rows().
func Multiply(a, b Matrix) (Matrix, error) {
	out, err := product(a, b)
	if err != nil {
		return Matrix{}, err
	}
	for i := range a.rows {
		if err := multiplyRow(a, b, out, i); err != nil {
			return Matrix{}, err
		}
	}
	return out, nil
}

// MultiplyContext computes the same product as Multiply with the rows spread
// over a bounded set of goroutines. The bound is read with
// core.GetWorkerMaxCount and defaults to GOMAXPROCS. The first row error, or
// the cancellation of ctx, aborts the remaining rows.
func MultiplyContext(ctx context.Context, a, b Matrix) (Matrix, error) {
	out, err := product(a, b)
	if err != nil {
		return Matrix{}, err
	}

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(core.GetWorkerMaxCount(ctx, runtime.GOMAXPROCS(0)))

	for i := range a.rows {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return context.Cause(ctx)
			}
			return multiplyRow(a, b, out, i)
		})
	}
	if err := p.Wait(); err != nil {
		return Matrix{}, err
	}
	return out, nil
}

// MultiplyAsync runs MultiplyContext on its own goroutine. The returned
// channel yields exactly one result and is then closed. A cancelled ctx
// yields a cancel result.
func MultiplyAsync(ctx context.Context, a, b Matrix) <-chan rop.Result[Matrix] {
	out := make(chan rop.Result[Matrix], 1)
	go func() {
		defer close(out)
		m, err := MultiplyContext(ctx, a, b)
		switch {
		case err == nil:
			out <- rop.Success(m)
		case ctx.Err() != nil:
			out <- rop.Cancel[Matrix](context.Cause(ctx))
		default:
			out <- rop.Fail[Matrix](err)
		}
	}()
	return out
}

func product(a, b Matrix) (Matrix, error) {
	if a.cols != b.rows {
		return Matrix{}, fmt.Errorf("%w: cannot multiply %s by %s", ErrDimensionMismatch, a.Shape(), b.Shape())
	}
	return New(a.rows, b.cols)
}

// multiplyRow fills row i of out. Rows are disjoint so concurrent calls for
// different i do not race.
func multiplyRow(a, b, out Matrix, i int) error {
	for j := range b.cols {
		var sum int64
		for k := range a.cols {
			p, ok := mul(a.data[i*a.cols+k], b.data[k*b.cols+j])
			if !ok {
				return fmt.Errorf("%w: element (%d, %d)", ErrOverflow, i, j)
			}
			if sum, ok = add(sum, p); !ok {
				return fmt.Errorf("%w: element (%d, %d)", ErrOverflow, i, j)
			}
		}
		out.data[i*out.cols+j] = sum
	}
	return nil
}

func mul(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, false
	}
	p := x * y
	return p, p/y == x
}

func add(x, y int64) (int64, bool) {
	s := x + y
	if (y > 0 && s < x) || (y < 0 && s > x) {
		return 0, false
	}
	return s, true
}
