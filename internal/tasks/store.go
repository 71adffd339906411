package tasks

import (
	"context"
	"fmt"

	"github.com/Joseda-hg/todo/internal/model"
)

// Store is the persistence boundary used by the command dispatcher.
// Complete and Remove report a missing task as found=false with a nil error.
type Store interface {
	List(ctx context.Context) ([]model.Task, error)
	Add(ctx context.Context, description string) (model.Task, error)
	Complete(ctx context.Context, id int64) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)

	// Flush makes pending changes durable. Stores that write on every call
	// return nil.
	Flush(ctx context.Context) error
	Close() error
}

// LoadWarning describes a stored record that was skipped while loading.
type LoadWarning struct {
	Line int
	Err  error
}

func (w LoadWarning) Error() string {
	if w.Line == 0 {
		return w.Err.Error()
	}
	return fmt.Sprintf("line %d: %v", w.Line, w.Err)
}

func (w LoadWarning) Unwrap() error {
	return w.Err
}
