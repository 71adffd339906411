package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Joseda-hg/todo/internal/model"
)

var baseTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func TestAddAssignsSequentialIDs(t *testing.T) {
	c := NewCollection(nil)

	for want := int64(1); want <= 3; want++ {
		task := mustAdd(t, c, "task", baseTime)
		if task.ID != want {
			t.Fatalf("expected id %d, got %d", want, task.ID)
		}
		if task.Done {
			t.Fatalf("expected new task to be open")
		}
	}
}

func TestAddContinuesFromLoadedMaximum(t *testing.T) {
	c := NewCollection([]model.Task{{ID: 7, Description: "b"}, {ID: 2, Description: "a"}})

	task := mustAdd(t, c, "c", baseTime)
	if task.ID != 8 {
		t.Fatalf("expected id 8, got %d", task.ID)
	}

	ids := []int64{}
	for _, task := range c.Tasks() {
		ids = append(ids, task.ID)
	}
	if diff := cmp.Diff([]int64{2, 7, 8}, ids); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestRemovedIDIsNotReused(t *testing.T) {
	c := NewCollection(nil)
	mustAdd(t, c, "first", baseTime)
	second := mustAdd(t, c, "second", baseTime)

	if !c.Remove(second.ID) {
		t.Fatalf("expected remove to find task %d", second.ID)
	}

	third := mustAdd(t, c, "third", baseTime)
	if third.ID != 3 {
		t.Fatalf("expected id 3 after removing 2, got %d", third.ID)
	}
}

func TestAddKeepsDescriptionVerbatim(t *testing.T) {
	c := NewCollection(nil)
	task := mustAdd(t, c, "", baseTime)
	if task.Description != "" {
		t.Fatalf("expected empty description, got %q", task.Description)
	}
	if !task.CreatedAt.Equal(baseTime) || !task.UpdatedAt.Equal(baseTime) {
		t.Fatalf("expected timestamps %v, got %v / %v", baseTime, task.CreatedAt, task.UpdatedAt)
	}
}

func TestCompleteMarksTaskDone(t *testing.T) {
	c := NewCollection(nil)
	task := mustAdd(t, c, "write report", baseTime)

	later := baseTime.Add(time.Hour)
	if !c.Complete(task.ID, later) {
		t.Fatalf("expected complete to find task")
	}

	got, ok := findTask(c, task.ID)
	if !ok {
		t.Fatalf("expected task %d to exist", task.ID)
	}
	if !got.Done {
		t.Fatalf("expected task to be done")
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at %v, got %v", later, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Fatalf("expected created_at unchanged, got %v", got.CreatedAt)
	}
}

func TestCompleteNeverMovesUpdatedAtBackwards(t *testing.T) {
	c := NewCollection(nil)
	task := mustAdd(t, c, "task", baseTime)

	c.Complete(task.ID, baseTime.Add(-time.Minute))

	got, _ := findTask(c, task.ID)
	if got.UpdatedAt.Before(baseTime) {
		t.Fatalf("expected updated_at >= %v, got %v", baseTime, got.UpdatedAt)
	}
}

func TestCompleteMissingLeavesCollectionUnchanged(t *testing.T) {
	c := NewCollection(nil)
	mustAdd(t, c, "task", baseTime)
	before := c.Tasks()

	if c.Complete(42, baseTime) {
		t.Fatalf("expected complete of missing id to report false")
	}
	if diff := cmp.Diff(before, c.Tasks()); diff != "" {
		t.Fatalf("collection changed (-want +got):\n%s", diff)
	}
}

func TestRemoveKeepsOtherTasksInOrder(t *testing.T) {
	c := NewCollection(nil)
	mustAdd(t, c, "a", baseTime)
	mustAdd(t, c, "b", baseTime)
	mustAdd(t, c, "c", baseTime)

	if !c.Remove(2) {
		t.Fatalf("expected remove to find task 2")
	}
	if c.Remove(2) {
		t.Fatalf("expected second remove of task 2 to report false")
	}

	got := c.Tasks()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected tasks 1 and 3, got %+v", got)
	}
	if got[0].Description != "a" || got[1].Description != "c" {
		t.Fatalf("unexpected descriptions: %+v", got)
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	c := NewCollection(nil)
	mustAdd(t, c, "a", baseTime)

	items := c.Tasks()
	items[0].Description = "changed"

	got, _ := findTask(c, 1)
	if got.Description != "a" {
		t.Fatalf("expected collection to be unaffected, got %q", got.Description)
	}
}

func findTask(c *Collection, id int64) (model.Task, bool) {
	for _, task := range c.Tasks() {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}

func mustAdd(t *testing.T, c *Collection, description string, now time.Time) model.Task {
	t.Helper()
	task, err := c.Add(description, now)
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	return task
}

func TestAddStopsAtMaxID(t *testing.T) {
	c := NewCollection([]model.Task{{ID: MaxID, Description: "last"}})

	if _, err := c.Add("one too many", baseTime); !errors.Is(err, ErrIDsExhausted) {
		t.Fatalf("expected ErrIDsExhausted, got %v", err)
	}
	if got := c.Tasks(); len(got) != 1 {
		t.Fatalf("expected collection unchanged, got %d tasks", len(got))
	}
}
