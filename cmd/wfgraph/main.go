// Package main provides the wfgraph command, which renders a Graphviz
// diagram of a directory of CI workflow definitions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/wfgraph/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, args, os.Stdout, os.Stderr); err != nil {
		return 1
	}
	return 0
}
