package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Joseda-hg/todo/internal/output"
	"github.com/Joseda-hg/todo/internal/tasks"
)

type command struct {
	name     string
	usage    string
	synopsis string
	minArgs  int
	run      func(ctx context.Context, store tasks.Store, args []string, out io.Writer) error
}

var commands []command

func init() {
	commands = []command{
		{name: "add", usage: "add <task description>", synopsis: "Add a new task", minArgs: 1, run: runAdd},
		{name: "list", usage: "list", synopsis: "List all tasks", run: runList},
		{name: "done", usage: "done <task ID>", synopsis: "Mark a task as done", minArgs: 1, run: runDone},
		{name: "remove", usage: "remove <task ID>", synopsis: "Remove a task", minArgs: 1, run: runRemove},
		{name: "help", usage: "help", synopsis: "Show this help", run: runHelp},
	}
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func runAdd(ctx context.Context, store tasks.Store, args []string, out io.Writer) error {
	task, err := store.Add(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added task %d.\n", task.ID)
	return nil
}

func runList(ctx context.Context, store tasks.Store, args []string, out io.Writer) error {
	items, err := store.List(ctx)
	if err != nil {
		return err
	}
	output.FormatTasks(out, items)
	return nil
}

func runDone(ctx context.Context, store tasks.Store, args []string, out io.Writer) error {
	id, ok := parseID(args[0])
	if !ok {
		fmt.Fprintln(out, "Invalid task ID.")
		return nil
	}

	found, err := store.Complete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(out, "Task not found.")
		return nil
	}
	fmt.Fprintf(out, "Completed task %d.\n", id)
	return nil
}

func runRemove(ctx context.Context, store tasks.Store, args []string, out io.Writer) error {
	id, ok := parseID(args[0])
	if !ok {
		fmt.Fprintln(out, "Invalid task ID.")
		return nil
	}

	found, err := store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(out, "Task not found.")
		return nil
	}
	fmt.Fprintf(out, "Removed task %d.\n", id)
	return nil
}

func runHelp(ctx context.Context, store tasks.Store, args []string, out io.Writer) error {
	fmt.Fprintln(out, "Usage: todo <command> [options]")
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(out, "  %s - %s\n", cmd.usage, cmd.synopsis)
	}
	return nil
}

// parseID accepts unsigned decimal IDs that fit in an int64.
func parseID(value string) (int64, bool) {
	id, err := strconv.ParseUint(value, 10, 63)
	if err != nil {
		return 0, false
	}
	return int64(id), true
}
