// Package tui is the interactive terminal front end over app.Controller.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todo-remote/app"
	"todo-remote/model"
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeModal
	modeSearch
	modeConfirmDelete
)

// Options configures a Model.
type Options struct {
	// PrefsPath is watched so theme changes made by other processes apply live.
	PrefsPath string
	Logger    *log.Logger
	// Status is shown until the first operation finishes.
	Status string
}

type Model struct {
	ctx    context.Context
	ctrl   *app.Controller
	theme  *app.ThemePreference
	filter *app.FilterSelector
	keys   keyMap
	styles styles
	logger *log.Logger

	prefsPath   string
	events      chan app.Event
	unsubscribe func()

	mode         uiMode
	cursor       int
	filterCursor int
	input        textinput.Model
	search       textinput.Model
	spinner      spinner.Model
	busy         int
	submitting   bool

	confirmID   int64
	confirmText string

	showHelp  bool
	status    string
	statusErr bool

	width  int
	height int
}

func NewModel(ctx context.Context, ctrl *app.Controller, theme *app.ThemePreference, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	status := strings.TrimSpace(opts.Status)
	if status == "" {
		status = "Loading…"
	}

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 280

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100
	search.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:       ctx,
		ctrl:      ctrl,
		theme:     theme,
		keys:      defaultKeyMap(),
		logger:    opts.Logger,
		prefsPath: opts.PrefsPath,
		events:    make(chan app.Event, 16),
		input:     input,
		search:    search,
		spinner:   sp,
		status:    status,
	}
	m.filter = app.NewFilterSelector(func(f model.Filter) {
		if err := ctrl.SetFilter(f); err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.cursor = 0
		m.setStatus("Showing "+strings.ToLower(string(f))+" tasks", false)
	})
	m.unsubscribe = subscribe(ctrl, m.events)
	theme.OnApply(func(t model.Theme) {
		m.styles = stylesFor(t)
		m.spinner.Style = m.styles.marker
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	m.busy++
	return tea.Batch(
		m.spinner.Tick,
		m.loadCmd(),
		waitForEvent(m.events),
		watchPrefsCmd(m.prefsPath),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case opDoneMsg:
		m.finishOp(msg)
	case controllerEventMsg:
		m.ensureCursor()
		if msg.ev.Kind == app.EventWarning && msg.ev.Err != nil {
			m.setStatus(describeError(opLoad, msg.ev.Err), true)
		}
		return m, waitForEvent(m.events)
	case prefsChangedMsg:
		if m.theme.Reload() {
			m.setStatus("Theme changed to "+string(m.theme.Theme()), false)
		}
		return m, watchPrefsCmd(m.prefsPath)
	case copiedMsg:
		switch {
		case msg.err != nil:
			m.setStatus("Copy failed: "+msg.err.Error(), true)
		case msg.count == 0:
			m.setStatus("Nothing to copy", false)
		default:
			m.setStatus(fmt.Sprintf("Copied %d tasks to the clipboard", msg.count), false)
		}
	case tea.KeyMsg:
		switch m.mode {
		case modeModal:
			return m, m.updateModal(msg)
		case modeSearch:
			return m, m.updateSearch(msg)
		case modeConfirmDelete:
			return m, m.updateConfirm(msg)
		default:
			return m, m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	if m.filter.IsOpen() {
		m.updateFilterDropdown(msg)
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Add):
		m.ctrl.OpenCreate()
		m.openModal("")
	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selectedTask()
		if !ok {
			m.setStatus("No task selected", false)
			return nil
		}
		if !m.ctrl.OpenEdit(task.ID) {
			m.setStatus("That task is gone; reload with r", true)
			return nil
		}
		m.openModal(task.Text)
	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.selectedTask()
		if !ok {
			return nil
		}
		m.busy++
		return m.toggleCmd(task.ID)
	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selectedTask()
		if !ok {
			m.setStatus("No task selected", false)
			return nil
		}
		m.mode = modeConfirmDelete
		m.confirmID = task.ID
		m.confirmText = task.Text
	case key.Matches(msg, m.keys.Filter):
		m.filter.Toggle()
		m.filterCursor = indexOfFilter(m.filter.Options(), m.filter.Selected())
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.ctrl.Filter().SearchText)
		m.search.CursorEnd()
		m.search.Focus()
	case key.Matches(msg, m.keys.Theme):
		t := m.theme.Toggle()
		m.setStatus("Theme: "+string(t), false)
	case key.Matches(msg, m.keys.Copy):
		return copyTasksCmd(m.rows())
	case key.Matches(msg, m.keys.Refresh):
		m.busy++
		return m.loadCmd()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case msg.String() == "esc":
		if m.showHelp {
			m.showHelp = false
			break
		}
		if m.ctrl.Filter().SearchText != "" {
			m.ctrl.SetSearch("")
			m.cursor = 0
			m.setStatus("Search cleared", false)
		}
	}
	return nil
}

func (m *Model) updateFilterDropdown(msg tea.KeyMsg) {
	opts := m.filter.Options()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.filterCursor = clamp(m.filterCursor-1, 0, len(opts)-1)
	case key.Matches(msg, m.keys.Down):
		m.filterCursor = clamp(m.filterCursor+1, 0, len(opts)-1)
	case msg.String() == "enter":
		_ = m.filter.Select(opts[m.filterCursor])
	case msg.String() == "esc", key.Matches(msg, m.keys.Filter):
		m.filter.Close()
	}
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.ctrl.CancelSession()
		m.closeModal()
		m.setStatus("Cancelled", false)
		return nil
	case "enter":
		if m.submitting {
			return nil
		}
		if strings.TrimSpace(m.input.Value()) == "" {
			m.setStatus("Task text cannot be empty", true)
			return nil
		}
		m.ctrl.SetDraft(m.input.Value())
		m.busy++
		m.submitting = true
		return m.submitCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetDraft(m.input.Value())
	return cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.ctrl.SetSearch("")
		m.search.SetValue("")
		m.search.Blur()
		m.mode = modeNormal
		m.cursor = 0
		m.setStatus("Search cleared", false)
		return nil
	case "enter":
		m.search.Blur()
		m.mode = modeNormal
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearch(m.search.Value())
	m.cursor = 0
	return cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "y":
		id := m.confirmID
		m.mode = modeNormal
		m.confirmID, m.confirmText = 0, ""
		m.busy++
		return m.deleteCmd(id)
	case "n", "esc", "enter", "ctrl+c":
		m.mode = modeNormal
		m.confirmID, m.confirmText = 0, ""
		m.setStatus("Delete cancelled", false)
	}
	return nil
}

func (m *Model) finishOp(msg opDoneMsg) {
	if m.busy > 0 {
		m.busy--
	}
	m.ensureCursor()

	if msg.op == opSubmit {
		m.submitting = false
		if !m.ctrl.Session().Active {
			m.closeModal()
		}
	}
	if msg.err != nil {
		m.logger.Debug("operation failed", "op", msg.op, "err", msg.err)
		m.setStatus(describeError(msg.op, msg.err), true)
		return
	}

	switch msg.op {
	case opLoad:
		total, _ := m.ctrl.Counts()
		m.setStatus(fmt.Sprintf("Loaded %d tasks", total), false)
	case opSubmit:
		m.setStatus("Saved", false)
	case opToggle:
		m.setStatus("Updated", false)
	case opDelete:
		m.setStatus("Deleted", false)
	}
}

func (m *Model) openModal(text string) {
	m.mode = modeModal
	m.input.SetValue(text)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeModal() {
	if m.mode == modeModal {
		m.mode = modeNormal
	}
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// rows lists visible tasks in display order: open first, then completed.
func (m *Model) rows() []model.Task {
	s := m.ctrl.Sections()
	return append(s.Incomplete, s.Completed...)
}

func (m *Model) selectedTask() (model.Task, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return model.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	n := len(m.rows())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, n-1)
}

func (m *Model) ensureCursor() {
	m.moveCursor(0)
}

func indexOfFilter(opts []model.Filter, f model.Filter) int {
	for i, o := range opts {
		if o == f {
			return i
		}
	}
	return 0
}
