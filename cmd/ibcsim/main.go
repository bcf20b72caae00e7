package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tendermint/tendermint/libs/cli"

	"github.com/ComposableFi/ibc-core/cmd/ibcsim/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	executor := cli.PrepareBaseCmd(cmd.NewRootCmd(), cmd.EnvPrefix, cmd.DefaultHome())
	if err := executor.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	return 0
}
