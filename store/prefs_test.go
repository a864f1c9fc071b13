package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrefsMissingKey(t *testing.T) {
	prefs, msg, err := OpenPrefs(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("open prefs failed: %v", err)
	}
	if msg != "" {
		t.Fatalf("expected no recovery message, got %q", msg)
	}
	if _, ok := prefs.Get("theme"); ok {
		t.Fatalf("expected theme to be absent")
	}
}

func TestPrefsSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	prefs, _, err := OpenPrefs(path)
	if err != nil {
		t.Fatalf("open prefs failed: %v", err)
	}
	if err := prefs.Set("theme", "dark"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	reopened, _, err := OpenPrefs(path)
	if err != nil {
		t.Fatalf("reopen prefs failed: %v", err)
	}
	got, ok := reopened.Get("theme")
	if !ok || got != "dark" {
		t.Fatalf("expected persisted theme dark, got %q (present=%v)", got, ok)
	}
}

func TestPrefsReloadSeesExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	a, _, err := OpenPrefs(path)
	if err != nil {
		t.Fatalf("open a failed: %v", err)
	}
	b, _, err := OpenPrefs(path)
	if err != nil {
		t.Fatalf("open b failed: %v", err)
	}

	if err := b.Set("theme", "dark"); err != nil {
		t.Fatalf("set via b failed: %v", err)
	}
	if _, ok := a.Get("theme"); ok {
		t.Fatalf("expected a to be stale before reload")
	}
	if err := a.Reload(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got, _ := a.Get("theme"); got != "dark" {
		t.Fatalf("expected reloaded theme dark, got %q", got)
	}
}

func TestOpenPrefsRecoversCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write corrupt prefs failed: %v", err)
	}

	prefs, msg, err := OpenPrefs(path)
	if err != nil {
		t.Fatalf("open prefs failed: %v", err)
	}
	if msg == "" {
		t.Fatalf("expected recovery message")
	}
	if err := prefs.Set("theme", "light"); err != nil {
		t.Fatalf("set after recovery failed: %v", err)
	}
}

func TestPrefsSetFailureKeepsPreviousValue(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker failed: %v", err)
	}
	prefs := &Prefs{
		path:   filepath.Join(blocker, "prefs.json"),
		values: map[string]string{"theme": "light"},
	}

	if err := prefs.Set("theme", "dark"); err == nil {
		t.Fatalf("expected set to fail when the directory cannot be created")
	}
	if got, _ := prefs.Get("theme"); got != "light" {
		t.Fatalf("expected previous theme light, got %q", got)
	}
	if err := prefs.Set("font", "mono"); err == nil {
		t.Fatalf("expected set to fail")
	}
	if _, ok := prefs.Get("font"); ok {
		t.Fatalf("expected new key to be dropped after a failed write")
	}
}
