// Package cli maps command-line arguments onto task store operations.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/Joseda-hg/todo/internal/exitcode"
	"github.com/Joseda-hg/todo/internal/tasks"
)

// StoreFactory acquires the task store for one invocation.
// Warnings describe stored records that were skipped while loading.
type StoreFactory func(ctx context.Context) (tasks.Store, []tasks.LoadWarning, error)

// Dispatcher runs exactly one command per invocation against a store it
// acquires and releases itself.
type Dispatcher struct {
	open StoreFactory
}

func NewDispatcher(open StoreFactory) *Dispatcher {
	return &Dispatcher{open: open}
}

// Run executes the command named by args[0] and returns the exit code.
// No arguments lists the tasks. A failure to save after the command is fatal.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	store, warnings, err := d.open(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: open task store: %v\n", err)
		return exitcode.StorageError
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(errOut, "warning: close task store: %v\n", err)
		}
	}()

	for _, warning := range warnings {
		fmt.Fprintf(errOut, "warning: skipped stored task: %v\n", warning)
	}

	if err := dispatch(ctx, store, args, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	}

	if err := store.Flush(ctx); err != nil {
		fmt.Fprintf(errOut, "error: failed to save tasks: %v\n", err)
		return exitcode.StorageError
	}

	return exitcode.Success
}

func dispatch(ctx context.Context, store tasks.Store, args []string, out io.Writer) error {
	if len(args) == 0 {
		return runList(ctx, store, nil, out)
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintln(out, "Unknown command.")
		return nil
	}

	rest := args[1:]
	if len(rest) < cmd.minArgs {
		fmt.Fprintf(out, "Usage: %s\n", cmd.usage)
		return nil
	}

	return cmd.run(ctx, store, rest, out)
}
