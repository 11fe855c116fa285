// Package main provides the entry point for the fleetmap CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/fleetmap/cmd/fleetmap/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	os.Exit(application.Execute(ctx, os.Args[1:]))
}
