package main

import (
	"bhinneka/commands"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "bhinneka: %v\n", err)
		stop()
		os.Exit(1)
	}
}
