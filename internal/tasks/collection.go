// Package tasks holds the in-memory task collection and the Store interface
// implemented by every persistence backend.
package tasks

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/Joseda-hg/todo/internal/model"
)

// MaxID is the highest ID a task may carry. Stores reject records above it
// so that NextID cannot overflow.
const MaxID = math.MaxInt64 - 1

var ErrIDsExhausted = errors.New("no task ids left")

// Collection is an ordered set of tasks with unique IDs.
type Collection struct {
	tasks  []model.Task
	lastID int64
}

// NewCollection builds a collection from already persisted tasks.
// Tasks are ordered by ID; callers must ensure IDs are unique.
func NewCollection(items []model.Task) *Collection {
	c := &Collection{tasks: make([]model.Task, len(items))}
	copy(c.tasks, items)
	sort.SliceStable(c.tasks, func(i, j int) bool {
		return c.tasks[i].ID < c.tasks[j].ID
	})
	for _, task := range c.tasks {
		if task.ID > c.lastID {
			c.lastID = task.ID
		}
	}
	return c
}

// Tasks returns a copy of the tasks in ID order.
func (c *Collection) Tasks() []model.Task {
	result := make([]model.Task, len(c.tasks))
	copy(result, c.tasks)
	return result
}

// NextID is one past the highest ID seen in this collection's lifetime.
func (c *Collection) NextID() int64 {
	return c.lastID + 1
}

// Add appends a new open task and returns it with its assigned ID.
func (c *Collection) Add(description string, now time.Time) (model.Task, error) {
	if c.lastID >= MaxID {
		return model.Task{}, ErrIDsExhausted
	}
	task := model.NewTask(description, now)
	task.ID = c.NextID()
	c.lastID = task.ID
	c.tasks = append(c.tasks, task)
	return task, nil
}

// Complete marks the task done and refreshes its update time.
// It reports false when no task has the ID.
func (c *Collection) Complete(id int64, now time.Time) bool {
	index := c.indexOf(id)
	if index < 0 {
		return false
	}

	task := &c.tasks[index]
	task.Done = true
	now = now.UTC().Round(0)
	if now.Before(task.UpdatedAt) {
		now = task.UpdatedAt
	}
	task.UpdatedAt = now
	return true
}

// Remove deletes the task with the given ID, keeping the order of the rest.
func (c *Collection) Remove(id int64) bool {
	index := c.indexOf(id)
	if index < 0 {
		return false
	}
	c.tasks = append(c.tasks[:index], c.tasks[index+1:]...)
	return true
}

func (c *Collection) indexOf(id int64) int {
	for i, task := range c.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}
