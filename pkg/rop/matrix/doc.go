// Package matrix multiplies dense int64 matrices, either on the calling
// goroutine (Multiply), over a bounded worker pool (MultiplyContext), or off
// the caller entirely (MultiplyAsync). Arithmetic is checked: a product that
// does not fit in int64 fails with ErrOverflow instead of wrapping.
package matrix
