package model

import (
	"encoding/json"
	"testing"
)

func TestTaskUsesResourceFieldNames(t *testing.T) {
	data, err := json.Marshal(Task{ID: 7, Text: "Buy milk", Completed: true})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"id":7,"task":"Buy milk","completed":true}`
	if string(data) != want {
		t.Fatalf("unexpected wire form\nwant=%s\ngot=%s", want, data)
	}
}

func TestFilterMatches(t *testing.T) {
	if !FilterAll.Matches(true) || !FilterAll.Matches(false) {
		t.Fatalf("expected All to pass everything")
	}
	if !FilterCompleted.Matches(true) || FilterCompleted.Matches(false) {
		t.Fatalf("expected Completed to keep only completed tasks")
	}
	if FilterIncompleted.Matches(true) || !FilterIncompleted.Matches(false) {
		t.Fatalf("expected Incompleted to keep only open tasks")
	}
}

func TestParseFilter(t *testing.T) {
	cases := map[string]Filter{
		"":            FilterAll,
		"ALL":         FilterAll,
		"completed":   FilterCompleted,
		"done":        FilterCompleted,
		"Incompleted": FilterIncompleted,
		"todo":        FilterIncompleted,
	}
	for in, want := range cases {
		got, err := ParseFilter(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %s, got %s", in, want, got)
		}
	}
	if _, err := ParseFilter("someday"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestParseThemeDefaultsToLight(t *testing.T) {
	if ParseTheme("") != ThemeLight {
		t.Fatalf("expected empty value to be light")
	}
	if ParseTheme("purple") != ThemeLight {
		t.Fatalf("expected unknown value to be light")
	}
	if ParseTheme(" Dark ") != ThemeDark {
		t.Fatalf("expected dark")
	}
}
