package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/ib-77/railyard/internal/console"
	"github.com/ib-77/railyard/pkg/logger"
	"github.com/ib-77/railyard/pkg/rop/core"
	"github.com/ib-77/railyard/pkg/rop/matrix"
)

const (
	rowsFlag    = "rows"
	colsFlag    = "cols"
	seedFlag    = "seed"
	seedConf    = "matrix.seed"
	workersFlag = "workers"
	workersConf = "matrix.workers"
	verifyFlag  = "verify"
	verifyConf  = "matrix.verify"
)

var errVerification = errors.New("product differs from the gonum reference")

type matrixConfig struct {
	seed    uint64
	workers int
	verify  bool
}

func matrixConfigFromViper() matrixConfig {
	return matrixConfig{
		seed:    viper.GetUint64(seedConf),
		workers: viper.GetInt(workersConf),
		verify:  viper.GetBool(verifyConf),
	}
}

func addMatrixFlags(flags *pflag.FlagSet) {
	flags.Uint64(seedFlag, 0, "seed of the random matrix values (0 picks a random seed)")
	flags.Int(workersFlag, 0, "maximum goroutines used for the product (0 uses GOMAXPROCS)")
	flags.Bool(verifyFlag, false, "cross-check the product against gonum")
}

func bindMatrixFlags(flags *pflag.FlagSet) {
	MustBindPFlag(seedConf, flags.Lookup(seedFlag))
	MustBindPFlag(workersConf, flags.Lookup(workersFlag))
	MustBindPFlag(verifyConf, flags.Lookup(verifyFlag))
}

// NewMultiplyCommand returns the non-interactive form of the matrix part of
// the demo.
func NewMultiplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multiply",
		Short: "Multiply two random matrices of the given shape",
		Long: `Generate A with --cols rows and --rows columns and B with --rows rows and
--cols columns, filled with values from 0 to 9, then print A, B and B·A.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			flags := cmd.Flags()
			rows, _ := flags.GetInt(rowsFlag)
			cols, _ := flags.GetInt(colsFlag)
			return multiplyDemo(cmd.Context(), cmd.OutOrStdout(), log, cols, rows, matrixConfigFromViper())
		},
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindMatrixFlags(cmd.Flags())
		},
	}

	flags := cmd.Flags()
	flags.Int(rowsFlag, 3, "number of rows of A")
	flags.Int(colsFlag, 3, "number of columns of A")
	addMatrixFlags(flags)

	return cmd
}

// multiplyDemo builds A (cols×rows) and B (rows×cols) and prints A, B and B·A.
func multiplyDemo(ctx context.Context, out io.Writer, log logger.Logger, cols, rows int, cfg matrixConfig) error {
	if cols < 1 || rows < 1 {
		return fmt.Errorf("%w: %d columns, %d rows", console.ErrNotPositive, cols, rows)
	}

	rnd := console.NewRand(cfg.seed)
	a, err := console.Generate(cols, rows, rnd)
	if err != nil {
		return err
	}
	b, err := console.Generate(rows, cols, rnd)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, "Multiplying matrices asynchronously..."); err != nil {
		return err
	}
	log.Debug("multiplying", zap.String("a", a.Shape()), zap.String("b", b.Shape()), zap.Int("workers", cfg.workers))

	res := <-matrix.MultiplyAsync(core.WithWorkerOptions(ctx, cfg.workers), b, a)
	if !res.IsSuccess() {
		return res.Err()
	}
	product := res.Result()

	if cfg.verify {
		var want mat.Dense
		want.Mul(b.Dense(), a.Dense())
		if !mat.Equal(&want, product.Dense()) {
			return errVerification
		}
		log.Info("product verified against gonum", zap.String("shape", product.Shape()))
	}

	for _, m := range []struct {
		title string
		value matrix.Matrix
	}{
		{"Matrix A:", a},
		{"Matrix B:", b},
		{"Product B·A:", product},
	} {
		if err := console.WriteMatrix(out, m.title, m.value); err != nil {
			return err
		}
	}
	return nil
}
