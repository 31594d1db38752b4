// Package main is the entry point for the beatsmith CLI.
//
// Usage:
//
//	beatsmith [flags] <command> [subcommand] [args]
//
// Commands:
//
//	generate  - Generate a level pack from a detector document
//	analysis  - Manage the library of imported detector documents
//	inspect   - Summarize or query a level file
//	schema    - Print the JSON schema of detector documents
//	config    - Configuration management (contexts)
//	version   - Show version information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/haivivi/beatsmith/cmd/beatsmith/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
