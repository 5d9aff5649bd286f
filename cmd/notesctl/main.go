// Package main реализует notesctl, консольный клиент хранилища заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gonotes/internal/notes/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.Execute(ctx, cli.DefaultOpener)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Describe(err))
		os.Exit(1)
	}
}
