package stage

import (
	"context"
	"time"

	"github.com/ib-77/railyard/pkg/logger"
)

type options struct {
	name          string
	parent        context.Context
	log           logger.Logger
	metrics       *Metrics
	submitTimeout time.Duration
}

// Option configures a stage at construction.
type Option func(*options)

// WithName sets the name used in logs, metrics and errors. Defaults to
// "stage-" plus the first block of the stage id.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithContext ties the stage to ctx: cancelling ctx cancels the stage.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.parent = ctx
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSubmitTimeout bounds how long Submit waits for buffer space. Zero
// disables the bound.
func WithSubmitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.submitTimeout = d
	}
}

func newOptions(opts []Option) options {
	o := options{
		parent: context.Background(),
		log:    logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
