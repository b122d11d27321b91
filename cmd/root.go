// Package cmd contains the commands of the railyard binary.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ib-77/railyard/internal/console"
	"github.com/ib-77/railyard/pkg/logger"
)

const (
	logFormatFlag = "log-format"
	logFormatConf = "log.format"
	logLevelFlag  = "log-level"
	logLevelConf  = "log.level"

	columnsPrompt = "Enter the number of columns in the matrix"
	rowsPrompt    = "Enter the number of rows in the matrix"
)

// NewRootCommand builds the railyard command. Flags are read from the command
// line, environment variables prefixed with RAILYARD, or config.yaml, in that
// order. Run without a subcommand it asks for the matrix dimensions, multiplies
// two random matrices, then runs the pipeline demo.
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("RAILYARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	for _, path := range []string{"/etc/railyard", "$HOME/.railyard", "."} {
		viper.AddConfigPath(path)
	}

	cmd := &cobra.Command{
		Use:          "railyard",
		Short:        "Multiply matrices in the background and push items through a staged pipeline",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runDemo,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			MustBindPFlag(logFormatConf, flags.Lookup(logFormatFlag))
			MustBindPFlag(logLevelConf, flags.Lookup(logLevelFlag))
			return readConfig()
		},
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindMatrixFlags(cmd.Flags())
			bindPipelineFlags(cmd.Flags())
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.String(logFormatFlag, "text", "log format: 'text' or 'json'")
	persistent.String(logLevelFlag, "warn", "log level: 'none', 'debug', 'info', 'warn', 'error', 'panic' or 'fatal'")

	addMatrixFlags(cmd.Flags())
	addPipelineFlags(cmd.Flags())

	return cmd
}

func readConfig() error {
	err := viper.ReadInConfig()
	if err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

func newLogger() (*logger.ZapLogger, error) {
	return logger.NewLogger(viper.GetString(logFormatConf), viper.GetString(logLevelConf))
}

func runDemo(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prompt := console.NewPrompter(cmd.InOrStdin(), out)

	cols, err := prompt.PositiveInt(columnsPrompt)
	if err != nil {
		return err
	}
	rows, err := prompt.PositiveInt(rowsPrompt)
	if err != nil {
		return err
	}

	if err := multiplyDemo(ctx, out, log, cols, rows, matrixConfigFromViper()); err != nil {
		return err
	}
	return pipelineDemo(ctx, out, log, pipelineConfigFromViper())
}
