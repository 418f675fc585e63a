package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Sell(ctx context.Context) error
	Pending(ctx context.Context) error
	Sync(ctx context.Context) error
	History(ctx context.Context) error
	Catalog(ctx context.Context) error
	Abandon(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the register console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	sell      — ring up a sale (queued locally, synced in the background)
//	pending   — show the local queue with retry counters
//	sync      — drain the queue now
//	history   — merged shift view: confirmed + pending sales
//	catalog   — refresh and print the cached product list
//	abandon   — drop an unrecoverable queued sale (manual override)
//	exit|quit — leave the program
//
// Any errors returned by command handlers are ignored here; handlers log
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pos (%s)> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: sell, pending, sync, history, catalog, abandon, exit")

		case "sell":
			_ = a.Sell(ctx)

		case "p", "pending":
			_ = a.Pending(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "h", "history":
			_ = a.History(ctx)

		case "catalog":
			_ = a.Catalog(ctx)

		case "abandon":
			_ = a.Abandon(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
