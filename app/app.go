package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"todo-remote/model"
	"todo-remote/remote"
)

// EventKind classifies a change notification.
type EventKind int

const (
	EventChanged EventKind = iota
	EventWarning
	EventError
)

// Event is delivered to subscribers after every state change or failure.
type Event struct {
	Kind EventKind
	Err  error
}

// Confirmer gates destructive operations behind a yes/no answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Controller owns the in-memory task collection and mediates every mutation
// through the remote store.
//
// Each reload is tagged with a sequence number when issued. A response is
// applied only if no newer state has been applied since, so late responses
// never overwrite fresher data. Optimistic updates take a sequence number of
// their own for the same reason.
type Controller struct {
	remote remote.Store
	logger *log.Logger
	now    func() time.Time

	mu         sync.Mutex
	tasks      []model.Task
	filter     model.FilterState
	session    model.EditSession
	issuedSeq  uint64
	appliedSeq uint64
	lastID     int64
	subs       map[int]func(Event)
	nextSub    int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock replaces time.Now for id generation.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller with an empty collection.
func NewController(store remote.Store, opts ...Option) *Controller {
	c := &Controller{
		remote: store,
		logger: log.New(io.Discard),
		now:    time.Now,
		tasks:  []model.Task{},
		filter: model.NewFilterState(),
		subs:   map[int]func(Event){},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn for change notifications and returns a function that
// removes it. fn runs synchronously on the goroutine that changed the state.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Load replaces the local collection with the server's.
// A transport failure clears the collection and returns a *TransportError.
// An unrecognized payload clears it and returns ErrMalformedResponse.
func (c *Controller) Load(ctx context.Context) error {
	seq := c.issue()
	raw, err := c.remote.List(ctx)
	if err != nil {
		terr := &TransportError{Op: "load", Err: err}
		if c.apply(seq, []model.Task{}) {
			c.logger.Error("load failed", "err", err)
			c.emit(Event{Kind: EventError, Err: terr})
		}
		return terr
	}

	tasks, err := decodeTaskList(raw)
	if err != nil {
		if c.apply(seq, []model.Task{}) {
			c.logger.Warn("ignoring todo list", "err", err)
			c.emit(Event{Kind: EventWarning, Err: err})
		}
		return err
	}

	if !c.apply(seq, tasks) {
		c.logger.Debug("discarding stale load", "seq", seq)
		return nil
	}
	c.logger.Debug("loaded", "tasks", len(tasks), "seq", seq)
	c.emit(Event{Kind: EventChanged})
	return nil
}

// Create sends a new task and reloads on success. Empty text is ignored.
// The task is never added locally before the reload confirms it.
func (c *Controller) Create(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		c.logger.Debug("create skipped: empty text")
		return nil
	}

	task := model.Task{ID: c.nextID(), Text: text, Completed: false}
	if _, err := c.remote.Create(ctx, task); err != nil {
		return c.fail("create", err)
	}
	c.logger.Info("task created", "id", task.ID)
	return c.reload(ctx)
}

// Update replaces the text of the task targeted by the open edit session.
// Empty text, a missing or different session target, and unknown ids are
// silently ignored.
func (c *Controller) Update(ctx context.Context, id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		c.logger.Debug("update skipped: empty text", "id", id)
		return nil
	}

	c.mu.Lock()
	s := c.session
	existing, ok := c.findLocked(id)
	c.mu.Unlock()

	if !s.Active || s.Mode != model.ModeEdit || s.TargetID != id {
		c.logger.Debug("update skipped: no edit target", "id", id)
		return nil
	}
	if !ok {
		c.logger.Debug("update skipped: stale session", "id", id)
		return nil
	}

	updated := existing
	updated.Text = text
	if _, err := c.remote.Update(ctx, updated); err != nil {
		return c.fail("update", err)
	}
	c.logger.Info("task updated", "id", id)
	return c.reload(ctx)
}

// ToggleCompletion flips the completed flag on the server, applies the flip
// locally as soon as the write succeeds, then reloads to reconcile.
func (c *Controller) ToggleCompletion(ctx context.Context, id int64) error {
	existing, ok := c.Task(id)
	if !ok {
		c.logger.Debug("toggle skipped: unknown task", "id", id)
		return nil
	}

	flipped := existing
	flipped.Completed = !existing.Completed
	if _, err := c.remote.Update(ctx, flipped); err != nil {
		return c.fail("toggle", err)
	}

	c.optimistic(func() {
		for i := range c.tasks {
			if c.tasks[i].ID == id {
				c.tasks[i].Completed = flipped.Completed
			}
		}
	})
	c.logger.Info("task toggled", "id", id, "completed", flipped.Completed)
	return c.reload(ctx)
}

// Delete removes a task after confirm agrees. Without confirmation nothing is
// sent. On success the task is removed locally and the list reloaded.
func (c *Controller) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	existing, ok := c.Task(id)
	if !ok {
		c.logger.Debug("delete skipped: unknown task", "id", id)
		return nil
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Delete %q?", existing.Text)) {
		c.logger.Debug("delete not confirmed", "id", id)
		return nil
	}

	if err := c.remote.Delete(ctx, id); err != nil {
		return c.fail("delete", err)
	}

	c.optimistic(func() {
		kept := make([]model.Task, 0, len(c.tasks))
		for _, t := range c.tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		c.tasks = kept
	})
	c.logger.Info("task deleted", "id", id)
	return c.reload(ctx)
}

// Tasks returns a copy of the collection in server order.
func (c *Controller) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Task returns a task by id.
func (c *Controller) Task(id int64) (model.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(id)
}

// Filter returns the current filter state.
func (c *Controller) Filter() model.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter selects the category filter.
func (c *Controller) SetFilter(f model.Filter) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, f)
	}
	c.mu.Lock()
	c.filter.Selected = f
	c.mu.Unlock()
	c.emit(Event{Kind: EventChanged})
	return nil
}

// SetSearch sets the free-text query.
func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	c.filter.SearchText = text
	c.mu.Unlock()
	c.emit(Event{Kind: EventChanged})
}

// VisibleTasks returns the tasks passing the selected filter whose text
// contains the search text, ignoring case. Collection order is kept.
func (c *Controller) VisibleTasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

// Counts returns the total and the filtered number of tasks.
func (c *Controller) Counts() (total, filtered int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks), len(c.visibleLocked())
}

// Sections groups the visible tasks by completion.
type Sections struct {
	Incomplete []model.Task
	Completed  []model.Task
}

func (s Sections) HasIncomplete() bool { return len(s.Incomplete) > 0 }
func (s Sections) HasCompleted() bool  { return len(s.Completed) > 0 }
func (s Sections) HasAnyTask() bool    { return s.HasIncomplete() || s.HasCompleted() }

// Sections splits VisibleTasks into open and completed groups.
func (c *Controller) Sections() Sections {
	out := Sections{Incomplete: []model.Task{}, Completed: []model.Task{}}
	for _, t := range c.VisibleTasks() {
		if t.Completed {
			out.Completed = append(out.Completed, t)
		} else {
			out.Incomplete = append(out.Incomplete, t)
		}
	}
	return out
}

func (c *Controller) visibleLocked() []model.Task {
	q := strings.ToLower(c.filter.SearchText)
	out := make([]model.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if !c.filter.Selected.Matches(t.Completed) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Text), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c *Controller) findLocked(id int64) (model.Task, bool) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (c *Controller) issue() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issuedSeq++
	return c.issuedSeq
}

func (c *Controller) apply(seq uint64, tasks []model.Task) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.appliedSeq {
		return false
	}
	c.appliedSeq = seq
	c.tasks = tasks
	return true
}

func (c *Controller) optimistic(mutate func()) {
	c.mu.Lock()
	mutate()
	c.issuedSeq++
	c.appliedSeq = c.issuedSeq
	c.mu.Unlock()
	c.emit(Event{Kind: EventChanged})
}

func (c *Controller) reload(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReload, err)
	}
	return nil
}

func (c *Controller) fail(op string, err error) error {
	terr := &TransportError{Op: op, Err: err}
	c.logger.Error(op+" failed", "err", err)
	c.emit(Event{Kind: EventError, Err: terr})
	return terr
}

// nextID proposes a creation-timestamp id, bumped so ids from this process
// are strictly increasing even when creations share a millisecond.
func (c *Controller) nextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

func (c *Controller) emit(ev Event) {
	c.mu.Lock()
	subs := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}
