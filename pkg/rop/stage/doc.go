// Package stage implements the building block of a linear staged pipeline: a
// Stage owns a bounded input buffer, one goroutine, and a transform.
//
// Stages are built with New, NewBuffer or NewAction, wired with Link before
// any item is submitted, then fed with Submit and closed with Complete:
//
//	square := stage.Must(stage.New(squareFn, 1))
//	print := stage.Must(stage.NewAction(printFn, 1))
//	_ = stage.Link(square, print)
//	_ = square.Submit(ctx, 3)
//	square.Complete()
//	res := print.Completion(ctx)
//
// Submit waits while the buffer is full, so a slow stage slows down every
// stage feeding it. Items leave a stage in the order they entered it.
// Completion of a stage is forwarded to its successor only after every item
// it accepted has been forwarded. A failing transform fails its own stage
// and cancels every linked stage; buffered items are dropped and counted as
// abandoned in the Summary.
package stage
