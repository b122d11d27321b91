// Package pipeline ties a linear chain of stages together.
//
// A Pipeline is built around a parent context. Stages created with
// stage.WithContext(p.Context()) and wired through Link are registered with
// it; Wait then awaits every one of them and reports the root cause of a
// failed run. Cancelling the parent context, calling Cancel, or the failure
// of any single stage cancels the whole chain.
//
//	p := pipeline.New(ctx)
//	buffer := stage.Must(stage.NewBuffer[int](1, stage.WithContext(p.Context())))
//	square := stage.Must(stage.New(squareFn, 1, stage.WithContext(p.Context())))
//	_ = pipeline.Link(p, buffer, square)
//	_ = pipeline.Feed(ctx, buffer, 1, 2, 3)
//	err := p.Wait(ctx)
package pipeline
