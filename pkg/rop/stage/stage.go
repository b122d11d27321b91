package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ib-77/railyard/pkg/logger"
	"github.com/ib-77/railyard/pkg/rop"
	"github.com/ib-77/railyard/pkg/rop/core"
	"github.com/ib-77/railyard/pkg/rop/solo"
)

// Transform turns one input item into one output item. It runs on the stage
// goroutine and receives the stage context, which is cancelled when the
// stage is cancelled or a linked stage fails.
type Transform[In, Out any] func(ctx context.Context, in In) (Out, error)

// Action is the work of a terminal stage.
type Action[In any] func(ctx context.Context, in In) error

// Target is anything a stage can forward into.
type Target[T any] = core.Target[T]

// Summary is attached to every completion outcome.
type Summary struct {
	Stage     string
	ID        uuid.UUID
	Processed int64
	Abandoned int64
	Elapsed   time.Duration
}

// Node is the type-erased view of a stage.
type Node interface {
	ID() uuid.UUID
	Name() string
	State() State
	Complete()
	Cancel()
	Done() <-chan struct{}
	Completion(ctx context.Context) rop.Result[Summary]
	Wait(ctx context.Context) error
}

// peer is a linked neighbour that must hear about cancellation.
type peer interface {
	abort(cause error)
	successor() peer
}

// Stage owns a bounded input buffer and a transform. Once started, a single
// goroutine takes items off the buffer in order, transforms them and forwards
// the outputs to the linked downstream stage, if any.
type Stage[In, Out any] struct {
	id            uuid.UUID
	name          string
	transform     Transform[In, Out]
	input         chan In
	log           logger.Logger
	metrics       *Metrics
	submitTimeout time.Duration

	ctx       context.Context
	cancel    context.CancelCauseFunc
	stopWatch func() bool

	mu          sync.Mutex
	state       State
	accepted    bool
	closed      bool
	inputClosed bool
	pending     int
	looping     bool
	next        Target[Out]
	upstream    peer
	downstream  peer
	done        chan struct{}
	result      rop.Result[Summary]

	// owned by the stage goroutine
	failure   *TransformError
	abandoned atomic.Int64
}

// New builds a stage whose input buffer holds capacity items.
func New[In, Out any](transform Transform[In, Out], capacity int, opts ...Option) (*Stage[In, Out], error) {
	if transform == nil {
		return nil, ErrNilTransform
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	o := newOptions(opts)
	id := uuid.New()
	if o.name == "" {
		o.name = "stage-" + strings.SplitN(id.String(), "-", 2)[0]
	}

	s := &Stage[In, Out]{
		id:            id,
		name:          o.name,
		transform:     transform,
		input:         make(chan In, capacity),
		log:           o.log,
		metrics:       o.metrics,
		submitTimeout: o.submitTimeout,
		done:          make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancelCause(o.parent)
	s.stopWatch = context.AfterFunc(s.ctx, s.onCancelled)

	return s, nil
}

// NewBuffer builds a stage that forwards items unchanged.
func NewBuffer[T any](capacity int, opts ...Option) (*Stage[T, T], error) {
	return New(func(_ context.Context, in T) (T, error) { return in, nil }, capacity, opts...)
}

// NewAction builds a terminal stage running action on every item.
func NewAction[T any](action Action[T], capacity int, opts ...Option) (*Stage[T, struct{}], error) {
	if action == nil {
		return nil, ErrNilTransform
	}
	return New(func(ctx context.Context, in T) (struct{}, error) {
		return struct{}{}, action(ctx, in)
	}, capacity, opts...)
}

// Must panics when a constructor fails.
func Must[In, Out any](s *Stage[In, Out], err error) *Stage[In, Out] {
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Stage[In, Out]) ID() uuid.UUID { return s.id }

func (s *Stage[In, Out]) Name() string { return s.name }

func (s *Stage[In, Out]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit puts item into the input buffer, waiting while the buffer is full.
// It returns ErrClosed after Complete, the cancellation or failure error once
// the stage stopped, ErrSubmitTimeout when the configured submit timeout
// elapses, or the cause of ctx.
func (s *Stage[In, Out]) Submit(ctx context.Context, item In) error {
	s.mu.Lock()
	if err := s.refusalLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.accepted = true
	s.pending++
	s.startLocked()
	s.mu.Unlock()

	defer s.release()

	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, s.submitTimeout, ErrSubmitTimeout)
		defer cancel()
	}

	select {
	case s.input <- item:
		s.metrics.add(s.name, outcomeSubmitted, 1)
		return nil
	case <-s.ctx.Done():
		return s.refusal()
	case <-ctx.Done():
		return fmt.Errorf("stage %q: submit: %w", s.name, context.Cause(ctx))
	}
}

// Complete marks the input as finished. Buffered items are still processed;
// once they all left, the downstream stage is completed as well. Calling it
// again has no effect.
func (s *Stage[In, Out]) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	if s.ctx.Err() == nil {
		s.startLocked()
	}
	if s.state == Running {
		s.state = Draining
	}
	s.closeInputLocked()
	s.log.Debug("stage input completed", s.fields(zap.Int("pending", s.pending))...)
}

// Cancel stops the stage without draining it. Linked stages are cancelled
// too. Cancelling a finished stage has no effect.
func (s *Stage[In, Out]) Cancel() {
	s.cancel(ErrCancelled)
}

// Done is closed once the stage reached a terminal state.
func (s *Stage[In, Out]) Done() <-chan struct{} {
	return s.done
}

// Completion waits for the stage outcome: success after the input was
// completed, drained and the downstream stage was completed; failure
// carrying a *TransformError; or a cancellation wrapping ErrCancelled. ctx
// bounds only the wait, the stage keeps running when it expires.
func (s *Stage[In, Out]) Completion(ctx context.Context) rop.Result[Summary] {
	select {
	case <-s.done:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.result
	case <-ctx.Done():
		return rop.Fail[Summary](fmt.Errorf("stage %q: awaiting completion: %w", s.name, context.Cause(ctx)))
	}
}

// Wait is Completion reduced to an error.
func (s *Stage[In, Out]) Wait(ctx context.Context) error {
	return rop.ToError(s.Completion(ctx))
}

func (s *Stage[In, Out]) startLocked() {
	if s.looping || s.state.Terminal() {
		return
	}
	s.looping = true
	s.state = Running
	go s.run()
}

func (s *Stage[In, Out]) run() {
	started := time.Now()
	s.log.Debug("stage running", s.fields()...)

	handlers := core.CancellationHandlers[In]{
		OnCancel: func(_ context.Context, inputCh <-chan In) {
			s.abandoned.Add(core.DrainBuffered(inputCh))
		},
		OnCancelUnprocessed: func(context.Context, In) { s.abandoned.Add(1) },
		OnCancelProcessed:   func(context.Context, In) { s.abandoned.Add(1) },
	}

	processed, err := core.Locomotive(s.ctx, s.input, s.engine, s.deliver, handlers)

	summary := Summary{
		Stage:     s.name,
		ID:        s.id,
		Processed: processed,
		Abandoned: s.abandoned.Load(),
		Elapsed:   time.Since(started),
	}
	s.metrics.add(s.name, outcomeAbandoned, summary.Abandoned)

	switch {
	case err == nil:
		if s.next != nil {
			s.next.Complete()
		}
		s.settle(Completed, rop.Success(summary))
		s.stopWatch()
		s.cancel(errFinished)
	case s.failure != nil:
		s.settle(Failed, rop.FailWithResult[Summary](s.failure, summary))
		s.cancel(s.failure)
	default:
		s.settle(Cancelled, rop.CancelWithResult(cancelled(err), summary))
		s.cancel(err)
	}
}

func (s *Stage[In, Out]) engine(ctx context.Context, in In) (res rop.Result[Out]) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = s.fail(fmt.Errorf("panic: %v", r))
		}
		s.metrics.observe(s.name, time.Since(started))
	}()

	res = solo.Try(ctx, solo.Succeed(in), s.transform)
	switch {
	case res.IsSuccess(), res.IsCancel():
		return res
	case ctx.Err() != nil:
		// the transform gave up because the stage is stopping
		return rop.Cancel[Out](context.Cause(ctx))
	default:
		return s.fail(res.Err())
	}
}

func (s *Stage[In, Out]) fail(err error) rop.Result[Out] {
	s.failure = &TransformError{Stage: s.name, Err: err}
	s.metrics.add(s.name, outcomeFailed, 1)
	s.log.Error("stage transform failed", s.fields(zap.Error(err))...)
	return rop.Fail[Out](s.failure)
}

func (s *Stage[In, Out]) deliver(ctx context.Context, out Out) error {
	if s.next != nil {
		if err := s.next.Submit(ctx, out); err != nil {
			return fmt.Errorf("stage %q: forward: %w", s.name, err)
		}
	}
	s.metrics.add(s.name, outcomeProcessed, 1)
	return nil
}

func (s *Stage[In, Out]) settle(state State, res rop.Result[Summary]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return
	}
	s.state = state
	s.result = res
	close(s.done)

	switch state {
	case Completed:
		s.log.Debug("stage completed", s.fields(zap.Int64("processed", res.Result().Processed))...)
	default:
		s.log.Debug("stage stopped", s.fields(zap.Stringer("state", state), zap.Error(res.Err()))...)
	}
}

// onCancelled runs once the stage context is cancelled for any reason.
func (s *Stage[In, Out]) onCancelled() {
	cause := context.Cause(s.ctx)
	if errors.Is(cause, errFinished) {
		return
	}

	s.mu.Lock()
	idle := !s.looping
	neighbours := []peer{s.upstream, s.downstream}
	s.mu.Unlock()

	if idle {
		s.settle(Cancelled, rop.CancelWithResult(cancelled(cause), Summary{Stage: s.name, ID: s.id}))
	}

	for _, p := range neighbours {
		if p != nil {
			p.abort(cause)
		}
	}
}

func (s *Stage[In, Out]) abort(cause error) {
	s.cancel(cause)
}

func (s *Stage[In, Out]) successor() peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downstream
}

func (s *Stage[In, Out]) refusal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refusalLocked(); err != nil {
		return err
	}
	return cancelled(context.Cause(s.ctx))
}

func (s *Stage[In, Out]) refusalLocked() error {
	switch {
	case s.state == Failed || s.state == Cancelled:
		return s.result.Err()
	case s.ctx.Err() != nil && !errors.Is(context.Cause(s.ctx), errFinished):
		return cancelled(context.Cause(s.ctx))
	case s.closed || s.state == Completed:
		return fmt.Errorf("stage %q: %w", s.name, ErrClosed)
	}
	return nil
}

func (s *Stage[In, Out]) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	s.closeInputLocked()
}

func (s *Stage[In, Out]) closeInputLocked() {
	if s.closed && s.pending == 0 && !s.inputClosed {
		s.inputClosed = true
		close(s.input)
	}
}

// startedLocked reports whether the topology around s is frozen.
func (s *Stage[In, Out]) startedLocked() bool {
	return s.accepted || s.closed || s.state != Idle || s.ctx.Err() != nil
}

func (s *Stage[In, Out]) fields(extra ...zap.Field) []zap.Field {
	return append([]zap.Field{zap.String("stage", s.name), zap.Stringer("stage_id", s.id)}, extra...)
}

var _ Node = (*Stage[int, int])(nil)
