package app

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"todo-remote/model"
)

// ThemeKey is the preference key holding "dark" or "light".
const ThemeKey = "theme"

// Preferences is a persisted string key-value collaborator.
type Preferences interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type reloader interface {
	Reload() error
}

// ThemePreference remembers the light/dark choice across sessions.
// Storage failures are logged and otherwise ignored.
type ThemePreference struct {
	mu     sync.Mutex
	prefs  Preferences
	theme  model.Theme
	apply  func(model.Theme)
	logger *log.Logger
}

// NewThemePreference reads the stored theme once. A nil prefs keeps the
// choice in memory only; a nil logger discards output.
func NewThemePreference(prefs Preferences, logger *log.Logger) *ThemePreference {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	t := &ThemePreference{prefs: prefs, theme: model.ThemeLight, logger: logger}
	t.theme = t.read()
	return t
}

// OnApply registers the presentation hook run whenever the theme changes.
func (t *ThemePreference) OnApply(fn func(model.Theme)) {
	t.mu.Lock()
	t.apply = fn
	theme := t.theme
	t.mu.Unlock()
	if fn != nil {
		fn(theme)
	}
}

func (t *ThemePreference) Theme() model.Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.theme
}

func (t *ThemePreference) IsDark() bool {
	return t.Theme() == model.ThemeDark
}

// Toggle flips between light and dark and persists the result.
func (t *ThemePreference) Toggle() model.Theme {
	next := model.ThemeDark
	if t.IsDark() {
		next = model.ThemeLight
	}
	t.Set(next)
	return next
}

// Set stores theme and applies it.
func (t *ThemePreference) Set(theme model.Theme) {
	t.mu.Lock()
	t.theme = theme
	apply := t.apply
	t.mu.Unlock()

	if t.prefs != nil {
		if err := t.prefs.Set(ThemeKey, string(theme)); err != nil {
			t.logger.Debug("theme not saved", "err", err)
		}
	}
	if apply != nil {
		apply(theme)
	}
}

// Reload re-reads the stored value and applies it if it changed.
// It reports whether the theme changed.
func (t *ThemePreference) Reload() bool {
	if t.prefs == nil {
		return false
	}
	if r, ok := t.prefs.(reloader); ok {
		if err := r.Reload(); err != nil {
			t.logger.Debug("theme reload failed", "err", err)
			return false
		}
	}
	theme := t.read()

	t.mu.Lock()
	changed := theme != t.theme
	t.theme = theme
	apply := t.apply
	t.mu.Unlock()

	if changed && apply != nil {
		apply(theme)
	}
	return changed
}

func (t *ThemePreference) read() model.Theme {
	if t.prefs == nil {
		return model.ThemeLight
	}
	v, ok := t.prefs.Get(ThemeKey)
	if !ok {
		return model.ThemeLight
	}
	return model.ParseTheme(v)
}
