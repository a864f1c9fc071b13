package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"todo-remote/app"
	"todo-remote/model"
)

type opKind int

const (
	opLoad opKind = iota
	opSubmit
	opToggle
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opSubmit:
		return "save"
	case opToggle:
		return "toggle"
	case opDelete:
		return "delete"
	default:
		return "load"
	}
}

// opDoneMsg reports the end of a controller call started by a command.
type opDoneMsg struct {
	op  opKind
	err error
}

// controllerEventMsg carries a controller notification into the update loop.
type controllerEventMsg struct {
	ev app.Event
}

type prefsChangedMsg struct{}

type copiedMsg struct {
	count int
	err   error
}

func (m *Model) loadCmd() tea.Cmd {
	c, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: opLoad, err: c.Load(ctx)}
	}
}

func (m *Model) submitCmd() tea.Cmd {
	c, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: opSubmit, err: c.Submit(ctx)}
	}
}

func (m *Model) toggleCmd(id int64) tea.Cmd {
	c, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: opToggle, err: c.ToggleCompletion(ctx, id)}
	}
}

// deleteCmd runs after the user answered the on-screen prompt, so the
// controller's confirmation is answered with yes.
func (m *Model) deleteCmd(id int64) tea.Cmd {
	c, ctx := m.ctrl, m.ctx
	confirmed := app.ConfirmFunc(func(string) bool { return true })
	return func() tea.Msg {
		return opDoneMsg{op: opDelete, err: c.Delete(ctx, id, confirmed)}
	}
}

// subscribe forwards controller events into ch without blocking the caller.
func subscribe(c *app.Controller, ch chan app.Event) func() {
	return c.Subscribe(func(ev app.Event) {
		select {
		case ch <- ev:
		default:
		}
	})
}

func waitForEvent(ch <-chan app.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return controllerEventMsg{ev: ev}
	}
}

// watchPrefsCmd waits for the next write to the preference file. The store
// replaces files by rename, so the parent directory is watched.
func watchPrefsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return nil
		}

		name := filepath.Base(path)
		for {
			select {
			case evt, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 && filepath.Base(evt.Name) == name {
					return prefsChangedMsg{}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func copyTasksCmd(tasks []model.Task) tea.Cmd {
	return func() tea.Msg {
		text, n := clipboardText(tasks)
		if n == 0 {
			return copiedMsg{}
		}
		if err := clipboard.WriteAll(text); err != nil {
			return copiedMsg{err: err}
		}
		return copiedMsg{count: n}
	}
}

// clipboardText renders tasks as a markdown checklist.
func clipboardText(tasks []model.Task) (string, int) {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		text := strings.TrimSpace(strings.ReplaceAll(t.Text, "\n", " "))
		if text == "" {
			continue
		}
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		lines = append(lines, fmt.Sprintf("- %s %s", box, text))
	}
	return strings.Join(lines, "\n"), len(lines)
}

// describeError turns controller errors into a status line.
func describeError(op opKind, err error) string {
	switch {
	case errors.Is(err, app.ErrReload):
		return err.Error()
	case errors.Is(err, app.ErrMalformedResponse):
		return "server sent an unrecognized list; showing nothing"
	case errors.Is(err, app.ErrTransport):
		return fmt.Sprintf("%s failed: %v", op, err)
	default:
		return err.Error()
	}
}
