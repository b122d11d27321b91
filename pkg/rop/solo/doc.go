// Package solo contains single-value, synchronous primitives that operate on
// rop.Result[T]. Stages use them to turn a transform call into an outcome
// without caring whether it came from a value, an error or a cancellation.
//
// Highlights:
// - Succeed/Fail/Cancel: construct Result[T]
// - Try: call a function (Out, error) and convert error to failure
// - Map: transform a successful value
// - Tee: side effect on success
// - Finally: reduce to a concrete value via success/error/cancel handlers
package solo
