// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"todo-remote/model"
)

// ErrNotFound is returned when a task id is unknown.
var ErrNotFound = errors.New("not found")

// FakeRemote is an in-memory implementation of remote.Store for testing.
type FakeRemote struct {
	mu    sync.Mutex
	tasks []model.Task
	calls map[string]int

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// ListBody, when set, is returned verbatim instead of the task list.
	ListBody json.RawMessage

	// BeforeList runs at the start of every List call, outside the lock.
	// Tests use it to observe controller state before a reload resolves.
	BeforeList func()
}

// NewFakeRemote creates a FakeRemote holding tasks.
func NewFakeRemote(tasks ...model.Task) *FakeRemote {
	f := &FakeRemote{calls: map[string]int{}}
	f.tasks = append(f.tasks, tasks...)
	return f
}

// Tasks returns a copy of the stored tasks.
func (f *FakeRemote) Tasks() []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// SetTasks replaces the stored tasks.
func (f *FakeRemote) SetTasks(tasks ...model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append([]model.Task{}, tasks...)
}

// Calls returns how many times op ("list", "create", "update", "delete") ran.
func (f *FakeRemote) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (f *FakeRemote) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// List implements remote.Store.
func (f *FakeRemote) List(ctx context.Context) (json.RawMessage, error) {
	if f.BeforeList != nil {
		f.BeforeList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if f.ListBody != nil {
		return f.ListBody, nil
	}
	if f.tasks == nil {
		return json.RawMessage("[]"), nil
	}
	return json.Marshal(f.tasks)
}

// Create implements remote.Store.
func (f *FakeRemote) Create(ctx context.Context, task model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.CreateErr != nil {
		return model.Task{}, f.CreateErr
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Update implements remote.Store.
func (f *FakeRemote) Update(ctx context.Context, task model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.UpdateErr != nil {
		return model.Task{}, f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == task.ID {
			f.tasks[i] = task
			return task, nil
		}
	}
	return model.Task{}, ErrNotFound
}

// Delete implements remote.Store.
func (f *FakeRemote) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
