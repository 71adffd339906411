// Package output formats tasks for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/Joseda-hg/todo/internal/model"
)

const (
	// EmptyList is printed instead of a listing when there are no tasks.
	EmptyList = "No tasks in the to-do list."

	timestampFormat = "%Y-%m-%d %H:%M:%S"
)

// FormatTasks writes one line per task, or the empty-list notice.
func FormatTasks(w io.Writer, items []model.Task) {
	if len(items) == 0 {
		fmt.Fprintln(w, EmptyList)
		return
	}
	for _, task := range items {
		FormatTask(w, task)
	}
}

// FormatTask writes a single task line:
//
//	[x] 1 - Buy milk (Created: 2024-01-02 15:04:05, Updated: 2024-01-02 15:04:05)
//
// The timestamp suffix is omitted for tasks stored without timestamps.
func FormatTask(w io.Writer, task model.Task) {
	line := fmt.Sprintf("[%s] %d - %s", Marker(task.Done), task.ID, normalizeDescription(task.Description))
	if task.HasTimestamps() {
		line += fmt.Sprintf(" (Created: %s, Updated: %s)", FormatTime(task.CreatedAt), FormatTime(task.UpdatedAt))
	}
	fmt.Fprintln(w, line)
}

// Marker is the completion box content.
func Marker(done bool) string {
	if done {
		return "x"
	}
	return " "
}

// FormatTime renders t in UTC as YYYY-MM-DD HH:MM:SS.
func FormatTime(t time.Time) string {
	return strftime.Format(timestampFormat, t.UTC())
}

// normalizeDescription keeps each task on one line.
func normalizeDescription(description string) string {
	description = strings.ReplaceAll(description, "\r", " ")
	return strings.ReplaceAll(description, "\n", " ")
}
