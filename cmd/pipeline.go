package cmd

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ib-77/railyard/internal/console"
	"github.com/ib-77/railyard/pkg/logger"
	"github.com/ib-77/railyard/pkg/rop/core"
	"github.com/ib-77/railyard/pkg/rop/pipeline"
	"github.com/ib-77/railyard/pkg/rop/solo"
	"github.com/ib-77/railyard/pkg/rop/stage"
)

const (
	itemsFlag          = "items"
	itemsConf          = "pipeline.items"
	capacityFlag       = "capacity"
	capacityConf       = "pipeline.capacity"
	transformDelayFlag = "transform-delay"
	transformDelayConf = "pipeline.transform-delay"
	actionDelayFlag    = "action-delay"
	actionDelayConf    = "pipeline.action-delay"
	printMetricsFlag   = "print-metrics"
	printMetricsConf   = "pipeline.print-metrics"
)

type pipelineConfig struct {
	items          int
	capacity       int
	transformDelay time.Duration
	actionDelay    time.Duration
	printMetrics   bool
}

func pipelineConfigFromViper() pipelineConfig {
	return pipelineConfig{
		items:          viper.GetInt(itemsConf),
		capacity:       viper.GetInt(capacityConf),
		transformDelay: viper.GetDuration(transformDelayConf),
		actionDelay:    viper.GetDuration(actionDelayConf),
		printMetrics:   viper.GetBool(printMetricsConf),
	}
}

func addPipelineFlags(flags *pflag.FlagSet) {
	flags.Int(itemsFlag, 10, "number of items pushed through the pipeline, starting at 1")
	flags.Int(capacityFlag, 1, "buffer capacity of every stage")
	flags.Duration(transformDelayFlag, 100*time.Millisecond, "time the square stage spends on each item")
	flags.Duration(actionDelayFlag, 50*time.Millisecond, "time the print stage spends on each item")
	flags.Bool(printMetricsFlag, false, "print the stage counters once the pipeline is done")
}

func bindPipelineFlags(flags *pflag.FlagSet) {
	MustBindPFlag(itemsConf, flags.Lookup(itemsFlag))
	MustBindPFlag(capacityConf, flags.Lookup(capacityFlag))
	MustBindPFlag(transformDelayConf, flags.Lookup(transformDelayFlag))
	MustBindPFlag(actionDelayConf, flags.Lookup(actionDelayFlag))
	MustBindPFlag(printMetricsConf, flags.Lookup(printMetricsFlag))
}

// NewPipelineCommand returns the command running only the pipeline part of
// the demo.
func NewPipelineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Push items through a buffer, square and print pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return pipelineDemo(cmd.Context(), cmd.OutOrStdout(), log, pipelineConfigFromViper())
		},
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindPipelineFlags(cmd.Flags())
		},
	}

	addPipelineFlags(cmd.Flags())

	return cmd
}

// pipelineDemo feeds 1..cfg.items into buffer -> square -> print and waits
// for the print stage to finish.
func pipelineDemo(ctx context.Context, out io.Writer, log logger.Logger, cfg pipelineConfig) error {
	if _, err := fmt.Fprintln(out, "Processing the pipeline asynchronously..."); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := stage.NewMetrics(reg)
	if err != nil {
		return err
	}

	p := pipeline.New(ctx, pipeline.WithLogger(log))
	common := []stage.Option{stage.WithContext(p.Context()), stage.WithLogger(log), stage.WithMetrics(metrics)}
	opts := func(name string) []stage.Option {
		return append([]stage.Option{stage.WithName(name)}, common...)
	}

	show := func(ctx context.Context, v int) error {
		if err := sleep(ctx, cfg.actionDelay); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, console.ItemLine(v))
		return err
	}
	square := func(ctx context.Context, v int) (int, error) {
		if err := sleep(ctx, cfg.transformDelay); err != nil {
			return 0, err
		}
		return v * v, nil
	}

	buffer, err := stage.NewBuffer[int](cfg.capacity, opts("buffer")...)
	if err != nil {
		return err
	}
	transform, err := stage.New(square, cfg.capacity, opts("square")...)
	if err != nil {
		return err
	}
	action, err := stage.NewAction(show, cfg.capacity, opts("print")...)
	if err != nil {
		return err
	}

	if err := pipeline.Link(p, buffer, transform); err != nil {
		return err
	}
	if err := pipeline.Link(p, transform, action); err != nil {
		return err
	}

	feedErr := core.FeedSeq(ctx, buffer, count(cfg.items))
	if err := p.Wait(ctx); err != nil {
		return err
	}
	if feedErr != nil {
		return feedErr
	}

	for _, res := range p.Summaries() {
		solo.Finally(ctx, res,
			func(_ context.Context, s stage.Summary) struct{} {
				log.Info("stage summary", zap.String("stage", s.Stage), zap.Int64("processed", s.Processed),
					zap.Int64("abandoned", s.Abandoned), zap.Duration("elapsed", s.Elapsed))
				return struct{}{}
			},
			func(_ context.Context, err error) struct{} {
				log.Error("stage failed", zap.Error(err))
				return struct{}{}
			},
			func(_ context.Context, err error) struct{} {
				log.Warn("stage cancelled", zap.Error(err))
				return struct{}{}
			})
	}

	if cfg.printMetrics {
		return writeCounters(out, reg)
	}
	return nil
}

// writeCounters prints every counter of g as name{label=value,...} value.
func writeCounters(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			if _, err := fmt.Fprintf(out, "%s{%s} %g\n", family.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()); err != nil {
				return err
			}
		}
	}
	return nil
}

func count(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 1; i <= n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
