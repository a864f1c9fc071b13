package app

import (
	"errors"
	"testing"

	"todo-remote/model"
	"todo-remote/store"
)

type memPrefs struct {
	values map[string]string
	setErr error
}

func (m *memPrefs) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *memPrefs) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func TestThemeDefaultsToLight(t *testing.T) {
	p := NewThemePreference(&memPrefs{values: map[string]string{}}, nil)
	if p.IsDark() {
		t.Fatalf("expected light theme when nothing is stored")
	}
}

func TestThemeReadsStoredValue(t *testing.T) {
	p := NewThemePreference(&memPrefs{values: map[string]string{ThemeKey: "dark"}}, nil)
	if !p.IsDark() {
		t.Fatalf("expected dark theme from storage")
	}
}

func TestThemeToggleAppliesAndPersists(t *testing.T) {
	prefs := &memPrefs{values: map[string]string{}}
	p := NewThemePreference(prefs, nil)

	var applied []model.Theme
	p.OnApply(func(th model.Theme) { applied = append(applied, th) })

	if got := p.Toggle(); got != model.ThemeDark {
		t.Fatalf("expected dark, got %s", got)
	}
	if prefs.values[ThemeKey] != "dark" {
		t.Fatalf("expected dark to be stored, got %q", prefs.values[ThemeKey])
	}
	p.Toggle()
	if prefs.values[ThemeKey] != "light" {
		t.Fatalf("expected light to be stored, got %q", prefs.values[ThemeKey])
	}

	want := []model.Theme{model.ThemeLight, model.ThemeDark, model.ThemeLight}
	if len(applied) != len(want) {
		t.Fatalf("want applied %v, got %v", want, applied)
	}
	for i := range want {
		if applied[i] != want[i] {
			t.Fatalf("want applied %v, got %v", want, applied)
		}
	}
}

func TestThemeStorageFailureIsIgnored(t *testing.T) {
	prefs := &memPrefs{values: map[string]string{}, setErr: errors.New("quota exceeded")}
	p := NewThemePreference(prefs, nil)

	if got := p.Toggle(); got != model.ThemeDark {
		t.Fatalf("expected toggle to apply despite storage failure, got %s", got)
	}
	if !p.IsDark() {
		t.Fatalf("expected in-memory theme to be dark")
	}
}

func TestThemeWithoutStorage(t *testing.T) {
	p := NewThemePreference(nil, nil)
	p.Set(model.ThemeDark)
	if p.Reload() {
		t.Fatalf("expected reload without storage to report no change")
	}
	if !p.IsDark() {
		t.Fatalf("expected in-memory theme to survive reload")
	}
}

func TestThemeSurvivesRestartAndReload(t *testing.T) {
	path := t.TempDir() + "/prefs.json"

	first, _, err := store.OpenPrefs(path)
	if err != nil {
		t.Fatalf("open prefs failed: %v", err)
	}
	NewThemePreference(first, nil).Set(model.ThemeDark)

	second, _, err := store.OpenPrefs(path)
	if err != nil {
		t.Fatalf("reopen prefs failed: %v", err)
	}
	p := NewThemePreference(second, nil)
	if !p.IsDark() {
		t.Fatalf("expected dark theme after restart")
	}

	if err := first.Set(ThemeKey, "light"); err != nil {
		t.Fatalf("external write failed: %v", err)
	}
	if !p.Reload() {
		t.Fatalf("expected reload to notice the external change")
	}
	if p.IsDark() {
		t.Fatalf("expected light theme after reload")
	}
}
