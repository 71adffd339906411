package model

import "time"

type Task struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// NewTask returns an open task stamped with now. The ID is left for the store to assign.
func NewTask(description string, now time.Time) Task {
	now = now.UTC().Round(0)
	return Task{
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasTimestamps reports whether the task carries creation and update times.
// Records written by older revisions of the file store have neither.
func (t Task) HasTimestamps() bool {
	return !t.CreatedAt.IsZero() && !t.UpdatedAt.IsZero()
}
