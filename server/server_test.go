package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"todo-remote/model"
)

func newTestServer(t *testing.T, shape Shape, todos ...model.Task) (*httptest.Server, *Repo) {
	t.Helper()
	repo := NewMemoryRepo(todos...)
	ts := httptest.NewServer(New(repo, WithShape(shape)).Handler())
	t.Cleanup(ts.Close)
	return ts, repo
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request failed: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	return v
}

func TestListShapes(t *testing.T) {
	todo := model.Task{ID: 1, Text: "Buy milk"}

	ts, _ := newTestServer(t, ShapeBare, todo)
	bare := decodeBody[[]model.Task](t, doRequest(t, http.MethodGet, ts.URL+"/todos", ""))
	if len(bare) != 1 || bare[0] != todo {
		t.Fatalf("bare: got %+v", bare)
	}

	for _, shape := range []Shape{ShapeData, ShapeTodos} {
		ts, _ := newTestServer(t, shape, todo)
		wrapped := decodeBody[map[string][]model.Task](t, doRequest(t, http.MethodGet, ts.URL+"/todos", ""))
		got := wrapped[string(shape)]
		if len(got) != 1 || got[0] != todo {
			t.Fatalf("%s: got %+v", shape, wrapped)
		}
	}
}

func TestListEmptyIsArray(t *testing.T) {
	ts, _ := newTestServer(t, ShapeBare)
	resp := doRequest(t, http.MethodGet, ts.URL+"/todos", "")
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("expected [], got %s", raw)
	}
}

func TestCreateKeepsProposedID(t *testing.T) {
	ts, repo := newTestServer(t, ShapeBare)

	resp := doRequest(t, http.MethodPost, ts.URL+"/todos", `{"id":42,"task":"Walk dog","completed":false}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody[model.Task](t, resp)
	if created.ID != 42 {
		t.Fatalf("expected proposed id to be kept, got %d", created.ID)
	}
	if len(repo.List()) != 1 {
		t.Fatalf("expected one stored todo")
	}
}

func TestCreateAssignsIDOnCollisionOrZero(t *testing.T) {
	ts, repo := newTestServer(t, ShapeBare, model.Task{ID: 5, Text: "existing"})

	dup := decodeBody[model.Task](t, doRequest(t, http.MethodPost, ts.URL+"/todos", `{"id":5,"task":"dup"}`))
	zero := decodeBody[model.Task](t, doRequest(t, http.MethodPost, ts.URL+"/todos", `{"task":"zero"}`))

	if dup.ID == 5 || zero.ID == 0 || dup.ID == zero.ID {
		t.Fatalf("expected fresh unique ids, got dup=%d zero=%d", dup.ID, zero.ID)
	}
	seen := map[int64]bool{}
	for _, tk := range repo.List() {
		if seen[tk.ID] {
			t.Fatalf("duplicate id %d in %+v", tk.ID, repo.List())
		}
		seen[tk.ID] = true
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	ts, _ := newTestServer(t, ShapeBare)

	for _, body := range []string{`{"task":`, `{"id":1,"task":"   "}`} {
		resp := doRequest(t, http.MethodPost, ts.URL+"/todos", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
		errBody := decodeBody[errorBody](t, resp)
		if errBody.Error.Code != codeInvalidRequest {
			t.Fatalf("body %q: unexpected error body %+v", body, errBody)
		}
	}
}

func TestPutReplacesUsingPathID(t *testing.T) {
	ts, repo := newTestServer(t, ShapeBare, model.Task{ID: 1, Text: "old"})

	resp := doRequest(t, http.MethodPut, ts.URL+"/todos/1", `{"id":99,"task":"new","completed":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := []model.Task{{ID: 1, Text: "new", Completed: true}}
	got := repo.List()
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestPutAndDeleteUnknownID(t *testing.T) {
	ts, _ := newTestServer(t, ShapeBare)

	if resp := doRequest(t, http.MethodPut, ts.URL+"/todos/7", `{"task":"x"}`); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("put: expected 404, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodDelete, ts.URL+"/todos/7", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete: expected 404, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodDelete, ts.URL+"/todos/abc", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("bad id: expected 404, got %d", resp.StatusCode)
	}
}

func TestDelete(t *testing.T) {
	ts, repo := newTestServer(t, ShapeBare, model.Task{ID: 1, Text: "a"}, model.Task{ID: 2, Text: "b"})

	resp := doRequest(t, http.MethodDelete, ts.URL+"/todos/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	got := repo.List()
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only todo 2 left, got %+v", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t, ShapeBare)

	if resp := doRequest(t, http.MethodPatch, ts.URL+"/todos", ""); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodPost, ts.URL+"/health", ""); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	ts, _ := newTestServer(t, ShapeBare)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-Request-ID") != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", resp.Header.Get("X-Request-ID"))
	}
	body := decodeBody[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body %+v", body)
	}
}

func TestRepoPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")

	repo, _, err := OpenRepo(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := repo.Create(model.Task{ID: 1, Text: "persist me"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.Replace(model.Task{ID: 1, Text: "persisted", Completed: true}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	reopened, _, err := OpenRepo(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	want := model.Task{ID: 1, Text: "persisted", Completed: true}
	got := reopened.List()
	if len(got) != 1 || got[0] != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestParseShape(t *testing.T) {
	for in, want := range map[string]Shape{"": ShapeBare, "bare": ShapeBare, "DATA": ShapeData, "todos": ShapeTodos} {
		got, err := ParseShape(in)
		if err != nil || got != want {
			t.Fatalf("ParseShape(%q): got %q, %v", in, got, err)
		}
	}
	if _, err := ParseShape("items"); err == nil {
		t.Fatalf("expected error for unknown shape")
	}
}
