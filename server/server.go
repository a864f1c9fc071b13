// Package server serves the /todos REST resource the client talks to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todo-remote/model"
)

// Shape selects how GET /todos wraps the list.
type Shape string

const (
	ShapeBare  Shape = "bare"
	ShapeData  Shape = "data"
	ShapeTodos Shape = "todos"
)

// ParseShape accepts bare, data or todos.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeBare, "":
		return ShapeBare, nil
	case ShapeData:
		return ShapeData, nil
	case ShapeTodos:
		return ShapeTodos, nil
	}
	return "", fmt.Errorf("unknown list shape %q", s)
}

const (
	codeInvalidRequest = "invalid_request"
	codeNotFound       = "not_found"
	codeInternal       = "internal_error"

	maxBodyBytes = 1 << 20
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error apiError `json:"error"`
}

type Server struct {
	repo   *Repo
	shape  Shape
	logger *log.Logger
	mux    *http.ServeMux
	srv    *http.Server
}

type Option func(*Server)

// WithShape sets the GET /todos response shape.
func WithShape(shape Shape) Option {
	return func(s *Server) {
		s.shape = shape
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(repo *Repo, opts ...Option) *Server {
	s := &Server{
		repo:   repo,
		shape:  ShapeBare,
		logger: log.New(io.Discard),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the request handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "shape", s.shape)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/todos", s.handleTodos)
	s.mux.HandleFunc("/todos/", s.handleTodo)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTodos(w)
	case http.MethodPost:
		task, ok := readTask(w, r)
		if !ok {
			return
		}
		created, err := s.repo.Create(task)
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		if created.ID != task.ID {
			s.logger.Debug("assigned id", "proposed", task.ID, "id", created.ID)
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) listTodos(w http.ResponseWriter) {
	todos := s.repo.List()
	switch s.shape {
	case ShapeData:
		writeJSON(w, http.StatusOK, map[string][]model.Task{"data": todos})
	case ShapeTodos:
		writeJSON(w, http.StatusOK, map[string][]model.Task{"todos": todos})
	default:
		writeJSON(w, http.StatusOK, todos)
	}
}

func (s *Server) handleTodo(w http.ResponseWriter, r *http.Request) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/todos/"), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || strings.Contains(raw, "/") {
		writeError(w, http.StatusNotFound, codeNotFound, "todo not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		for _, t := range s.repo.List() {
			if t.ID == id {
				writeJSON(w, http.StatusOK, t)
				return
			}
		}
		writeError(w, http.StatusNotFound, codeNotFound, "todo not found")
	case http.MethodPut:
		task, ok := readTask(w, r)
		if !ok {
			return
		}
		task.ID = id
		updated, err := s.repo.Replace(task)
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.repo.Delete(id); err != nil {
			s.writeRepoError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, ErrEmptyText):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
	default:
		s.logger.Error("write failed", "err", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to save todos")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "request_id", id, "elapsed", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func readTask(w http.ResponseWriter, r *http.Request) (model.Task, bool) {
	var task model.Task
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid JSON body")
		return model.Task{}, false
	}
	return task, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: apiError{Code: code, Message: message}})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, codeInvalidRequest, "method not allowed")
}
