// termlink - pick a network role from a terminal menu and hold one session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"termlink/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "termlink: %v\n", err)
		os.Exit(1)
	}
}
