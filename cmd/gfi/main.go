package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ahmednasr/help-wanted/internal/cli"
	"github.com/ahmednasr/help-wanted/internal/config"
)

var version = "dev"

func main() {
	config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(cli.DefaultBackend(), version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
