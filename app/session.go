package app

import (
	"context"
	"strings"

	"todo-remote/model"
)

// OpenCreate starts a session for a new task, replacing any open session.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	c.session = model.EditSession{Active: true, Mode: model.ModeCreate}
	c.mu.Unlock()
	c.emit(Event{Kind: EventChanged})
}

// OpenEdit starts a session editing id, prefilled with its current text.
// It returns false and leaves the session unchanged if id is unknown.
func (c *Controller) OpenEdit(id int64) bool {
	c.mu.Lock()
	task, ok := c.findLocked(id)
	if ok {
		c.session = model.EditSession{
			Active:    true,
			Mode:      model.ModeEdit,
			TargetID:  id,
			DraftText: task.Text,
		}
	}
	c.mu.Unlock()
	if ok {
		c.emit(Event{Kind: EventChanged})
	}
	return ok
}

// SetDraft records the text typed so far. It is ignored with no open session.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Active {
		c.session.DraftText = text
	}
}

// CancelSession closes the session without sending anything.
func (c *Controller) CancelSession() {
	c.mu.Lock()
	c.session = model.EditSession{}
	c.mu.Unlock()
	c.emit(Event{Kind: EventChanged})
}

// Session returns a copy of the current edit session.
func (c *Controller) Session() model.EditSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Submit sends the session's draft as a create or an update. The session
// closes once the write reaches the server; on a failed write it stays open
// so the same submit can be retried. An empty draft is ignored.
func (c *Controller) Submit(ctx context.Context) error {
	s := c.Session()
	if !s.Active || strings.TrimSpace(s.DraftText) == "" {
		return nil
	}

	var err error
	switch s.Mode {
	case model.ModeEdit:
		err = c.Update(ctx, s.TargetID, s.DraftText)
	default:
		err = c.Create(ctx, s.DraftText)
	}
	if !WriteApplied(err) {
		return err
	}

	c.mu.Lock()
	closed := c.session == s
	if closed {
		c.session = model.EditSession{}
	}
	c.mu.Unlock()
	if closed {
		c.emit(Event{Kind: EventChanged})
	}
	return err
}
