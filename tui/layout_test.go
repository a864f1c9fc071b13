package tui

import (
	"context"
	"testing"

	"todo-remote/app"
	"todo-remote/testutil"
)

func newLayoutModel(width int) *Model {
	ctrl := app.NewController(testutil.NewFakeRemote())
	m := NewModel(context.Background(), ctrl, app.NewThemePreference(nil, nil), Options{})
	m.width = width
	return m
}

func TestPaneWidthsPreferNarrowLeftPanel(t *testing.T) {
	m := newLayoutModel(120)

	viewW := m.viewportWidth()
	left, right := m.paneWidths(viewW, 1)
	if left >= right {
		t.Fatalf("expected left panel to be narrower than right (left=%d right=%d)", left, right)
	}
	if left+right+1 != viewW {
		t.Fatalf("expected pane widths to fill available width=%d, got left=%d right=%d", viewW, left, right)
	}
}

func TestPaneWidthsSmallTerminalStillValid(t *testing.T) {
	m := newLayoutModel(48)

	viewW := m.viewportWidth()
	left, right := m.paneWidths(viewW, 1)
	if left < 10 || right < 12 {
		t.Fatalf("expected minimum usable pane widths, got left=%d right=%d", left, right)
	}
	if left+right+1 > viewW {
		t.Fatalf("expected panes not to exceed viewport width=%d, got left=%d right=%d", viewW, left, right)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "he…"},
		{"ação", 2, "a…"},
		{"x", 0, ""},
		{"xyz", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Fatalf("truncateRunes(%q, %d): got %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
