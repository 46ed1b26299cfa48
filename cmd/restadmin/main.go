// Package main is the entry point for the restadmin console.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/restadmin/internal/console"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return console.Execute(ctx, os.Args[1:], console.Options{})
}
