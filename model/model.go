package model

import (
	"fmt"
	"strings"
)

// Filter represents which tasks should be shown.
type Filter string

const (
	FilterAll         Filter = "All"
	FilterCompleted   Filter = "Completed"
	FilterIncompleted Filter = "Incompleted"
)

// Filters lists the closed set of filter options in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterCompleted, FilterIncompleted}
}

// Valid reports whether f is one of the known options.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterCompleted, FilterIncompleted:
		return true
	}
	return false
}

// Matches reports whether a task with the given completion flag passes f.
func (f Filter) Matches(completed bool) bool {
	switch f {
	case FilterCompleted:
		return completed
	case FilterIncompleted:
		return !completed
	default:
		return true
	}
}

// ParseFilter accepts the option names case-insensitively, plus a few
// shorthands used on the command line.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "incompleted", "incomplete", "todo", "open":
		return FilterIncompleted, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Task is an individual todo item as stored by the remote resource.
type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"task" yaml:"task"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// SessionMode tells whether an edit session creates or edits a task.
type SessionMode int

const (
	ModeCreate SessionMode = iota
	ModeEdit
)

func (m SessionMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// EditSession captures an in-progress create/edit interaction.
// TargetID is zero when no task is targeted.
type EditSession struct {
	Active    bool
	Mode      SessionMode
	TargetID  int64
	DraftText string
}

// FilterState is the selected category filter plus the free-text query.
type FilterState struct {
	Selected   Filter
	SearchText string
}

// NewFilterState returns the initial state: everything shown, no query.
func NewFilterState() FilterState {
	return FilterState{Selected: FilterAll}
}

// Theme is the persisted presentation preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored value to a Theme. Anything unrecognized is light.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}
