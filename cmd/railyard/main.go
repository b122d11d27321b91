package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ib-77/railyard/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.NewRootCommand()
	rootCmd.AddCommand(cmd.NewMultiplyCommand())
	rootCmd.AddCommand(cmd.NewPipelineCommand())
	rootCmd.AddCommand(cmd.NewVersionCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
