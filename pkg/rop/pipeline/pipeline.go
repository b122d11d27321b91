package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ib-77/railyard/pkg/logger"
	"github.com/ib-77/railyard/pkg/rop"
	"github.com/ib-77/railyard/pkg/rop/core"
	"github.com/ib-77/railyard/pkg/rop/stage"
)

// ErrNoStages is returned by Wait on a pipeline nothing was linked into.
var ErrNoStages = errors.New("pipeline has no stages")

// Pipeline owns the chain-wide completion and cancellation of a set of
// linked stages.
type Pipeline struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	stop   func() bool
	log    logger.Logger

	mu    sync.Mutex
	nodes []stage.Node
	known map[stage.Node]struct{}
}

type Option func(*Pipeline)

func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// New creates an empty pipeline. Cancelling ctx cancels every stage added to
// it.
func New(ctx context.Context, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:   logger.NewNoopLogger(),
		known: map[stage.Node]struct{}{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ctx, p.cancel = context.WithCancelCause(ctx)
	p.stop = context.AfterFunc(p.ctx, p.cancelAll)
	return p
}

// Context is cancelled together with the pipeline. Stages built with
// stage.WithContext(p.Context()) stop on their own when it ends.
func (p *Pipeline) Context() context.Context {
	return p.ctx
}

// Link wires up into down and registers both with p.
func Link[A, B, C any](p *Pipeline, up *stage.Stage[A, B], down *stage.Stage[B, C]) error {
	if err := stage.Link(up, down); err != nil {
		return err
	}
	p.Add(up, down)
	return nil
}

// Add registers stages whose completion Wait should await. Registering a
// stage twice is harmless.
func (p *Pipeline) Add(nodes ...stage.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, n := range nodes {
		if _, ok := p.known[n]; ok {
			continue
		}
		p.known[n] = struct{}{}
		p.nodes = append(p.nodes, n)
		if p.ctx.Err() != nil {
			n.Cancel()
		}
	}
}

// Feed submits items to head in order and completes it.
func Feed[T any](ctx context.Context, head core.Target[T], items ...T) error {
	return core.Feed(ctx, head, items...)
}

// Cancel stops every registered stage.
func (p *Pipeline) Cancel() {
	p.cancel(stage.ErrCancelled)
}

func (p *Pipeline) cancelAll() {
	p.mu.Lock()
	nodes := append([]stage.Node(nil), p.nodes...)
	p.mu.Unlock()

	p.log.Debug("pipeline cancelled", zap.Error(context.Cause(p.ctx)), zap.Int("stages", len(nodes)))
	for _, n := range nodes {
		n.Cancel()
	}
}

// Wait blocks until every registered stage settled and returns the root
// cause of a failed run: the first transform failure when there is one, the
// cancellation otherwise. The first stage to fail or be cancelled makes Wait
// cancel the remaining ones. ctx bounds only the wait.
func (p *Pipeline) Wait(ctx context.Context) error {
	p.mu.Lock()
	nodes := append([]stage.Node(nil), p.nodes...)
	p.mu.Unlock()

	if len(nodes) == 0 {
		return ErrNoStages
	}

	var g errgroup.Group
	results := make([]rop.Result[stage.Summary], len(nodes))
	for i, n := range nodes {
		g.Go(func() error {
			results[i] = n.Completion(ctx)
			if !results[i].IsSuccess() {
				if ctx.Err() == nil {
					p.cancel(fmt.Errorf("stage %q: %w", n.Name(), results[i].Err()))
				}
				return results[i].Err()
			}
			return nil
		})
	}
	first := g.Wait()

	for i, n := range nodes {
		if n.State() == stage.Failed {
			return results[i].Err()
		}
	}
	if first == nil {
		p.log.Debug("pipeline completed", zap.Int("stages", len(nodes)))
		p.stop()
		p.cancel(nil)
	}
	return first
}

// Summaries reports the outcome of every registered stage in registration
// order. Stages still running report an empty result.
func (p *Pipeline) Summaries() []rop.Result[stage.Summary] {
	p.mu.Lock()
	nodes := append([]stage.Node(nil), p.nodes...)
	p.mu.Unlock()

	out := make([]rop.Result[stage.Summary], len(nodes))
	for i, n := range nodes {
		select {
		case <-n.Done():
			out[i] = n.Completion(context.Background())
		default:
		}
	}
	return out
}
