// Package jsonl stores the task collection in a flat file holding one JSON
// record per line. The whole file is read on Open and rewritten on Flush.
package jsonl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Joseda-hg/todo/internal/model"
	"github.com/Joseda-hg/todo/internal/tasks"
)

type Store struct {
	path    string
	tasks   *tasks.Collection
	now     func() time.Time
	readErr error
}

var _ tasks.Store = (*Store)(nil)

// Open loads the file at path. A missing file is an empty collection. A file
// that cannot be read, and any record that cannot be decoded, is reported as a
// warning instead of failing the load. A store whose file could not be read
// starts empty and refuses to Flush over that file.
func Open(path string) (*Store, []tasks.LoadWarning, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("task file path is required")
	}

	store := &Store{path: path, now: time.Now}

	data, err := readFile(path)
	if err != nil {
		store.readErr = err
		store.tasks = tasks.NewCollection(nil)
		return store, []tasks.LoadWarning{{Err: err}}, nil
	}

	items, warnings := decode(data)
	store.tasks = tasks.NewCollection(items)
	return store, warnings, nil
}

// SetClock replaces the time source used for new and completed tasks.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	return s.tasks.Tasks(), nil
}

func (s *Store) Add(ctx context.Context, description string) (model.Task, error) {
	return s.tasks.Add(description, s.now())
}

func (s *Store) Complete(ctx context.Context, id int64) (bool, error) {
	return s.tasks.Complete(id, s.now()), nil
}

func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	return s.tasks.Remove(id), nil
}

// Flush rewrites the file with every task in collection order.
func (s *Store) Flush(ctx context.Context) error {
	if s.readErr != nil {
		return fmt.Errorf("not overwriting %s after failed load: %w", s.path, s.readErr)
	}
	return Save(s.path, s.tasks.Tasks())
}

func (s *Store) Close() error {
	return nil
}

// Load reads every well-formed record from path. Records are returned in file
// order; malformed records and repeated IDs are skipped with a warning.
func Load(path string) ([]model.Task, []tasks.LoadWarning) {
	data, err := readFile(path)
	if err != nil {
		return nil, []tasks.LoadWarning{{Err: err}}
	}
	return decode(data)
}

// readFile returns nil data for a missing file.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func decode(data []byte) ([]model.Task, []tasks.LoadWarning) {
	var (
		items    []model.Task
		warnings []tasks.LoadWarning
		seen     = make(map[int64]struct{})
	)
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		task, err := decodeRecord(line)
		if err != nil {
			warnings = append(warnings, tasks.LoadWarning{Line: i + 1, Err: err})
			continue
		}
		if _, ok := seen[task.ID]; ok {
			warnings = append(warnings, tasks.LoadWarning{Line: i + 1, Err: fmt.Errorf("duplicate task id %d", task.ID)})
			continue
		}
		seen[task.ID] = struct{}{}
		items = append(items, task)
	}

	return items, warnings
}

// Save writes tasks to path, one record per line, replacing the file atomically.
func Save(path string, items []model.Task) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	for _, task := range items {
		if err := encoder.Encode(task); err != nil {
			return fmt.Errorf("encode task %d: %w", task.ID, err)
		}
	}

	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func decodeRecord(line []byte) (model.Task, error) {
	var task model.Task
	if err := json.Unmarshal(line, &task); err != nil {
		return model.Task{}, fmt.Errorf("parse task: %w", err)
	}
	if task.ID <= 0 || task.ID > tasks.MaxID {
		return model.Task{}, fmt.Errorf("parse task: invalid id %d", task.ID)
	}
	return task, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
