package server

import (
	"errors"
	"strings"
	"sync"

	"todo-remote/model"
	"todo-remote/store"
)

var (
	ErrNotFound  = errors.New("todo not found")
	ErrEmptyText = errors.New("task text is empty")
)

type todosDoc struct {
	Version int          `json:"version"`
	Todos   []model.Task `json:"todos"`
}

func (d *todosDoc) Normalize() {
	if d.Todos == nil {
		d.Todos = []model.Task{}
	}
}

func newTodosDoc() todosDoc {
	return todosDoc{Version: 1, Todos: []model.Task{}}
}

// Repo is the server's todo collection. With a path, every write is saved
// through store.Autosave.
type Repo struct {
	mu    sync.Mutex
	path  string
	todos []model.Task
}

// NewMemoryRepo returns a repo that is never written to disk.
func NewMemoryRepo(todos ...model.Task) *Repo {
	return &Repo{todos: append([]model.Task{}, todos...)}
}

// OpenRepo loads the todo file at path, recovering from a corrupt file when a
// backup exists. The message is non-empty when recovery happened.
func OpenRepo(path string) (*Repo, string, error) {
	doc, msg, err := store.LoadWithRecovery(path, newTodosDoc)
	if err != nil {
		return nil, "", err
	}
	return &Repo{path: path, todos: doc.Todos}, msg, nil
}

// List returns the todos in insertion order.
func (r *Repo) List() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Task, len(r.todos))
	copy(out, r.todos)
	return out
}

// Create appends task. A zero or already used id is replaced with one above
// the current maximum.
func (r *Repo) Create(task model.Task) (model.Task, error) {
	if strings.TrimSpace(task.Text) == "" {
		return model.Task{}, ErrEmptyText
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID <= 0 || r.indexLocked(task.ID) >= 0 {
		task.ID = r.maxIDLocked() + 1
	}
	r.todos = append(r.todos, task)
	if err := r.saveLocked(); err != nil {
		r.todos = r.todos[:len(r.todos)-1]
		return model.Task{}, err
	}
	return task, nil
}

// Replace overwrites the todo with task.ID.
func (r *Repo) Replace(task model.Task) (model.Task, error) {
	if strings.TrimSpace(task.Text) == "" {
		return model.Task{}, ErrEmptyText
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(task.ID)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	prev := r.todos[i]
	r.todos[i] = task
	if err := r.saveLocked(); err != nil {
		r.todos[i] = prev
		return model.Task{}, err
	}
	return task, nil
}

// Delete removes the todo with id.
func (r *Repo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	prev := r.todos
	next := make([]model.Task, 0, len(r.todos)-1)
	next = append(next, r.todos[:i]...)
	next = append(next, r.todos[i+1:]...)
	r.todos = next
	if err := r.saveLocked(); err != nil {
		r.todos = prev
		return err
	}
	return nil
}

func (r *Repo) indexLocked(id int64) int {
	for i, t := range r.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (r *Repo) maxIDLocked() int64 {
	var top int64
	for _, t := range r.todos {
		if t.ID > top {
			top = t.ID
		}
	}
	return top
}

func (r *Repo) saveLocked() error {
	if r.path == "" {
		return nil
	}
	return store.Autosave(r.path, todosDoc{Version: 1, Todos: r.todos})
}
