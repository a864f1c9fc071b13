package app

import (
	"bytes"
	"encoding/json"
	"fmt"

	"todo-remote/model"
)

// decodeTaskList accepts a bare array, or an object holding the array under
// "data" or "todos" (checked in that order).
func decodeTaskList(raw json.RawMessage) ([]model.Task, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	switch body[0] {
	case '[':
		return decodeArray(body)
	case '{':
		var wrapper struct {
			Data  json.RawMessage `json:"data"`
			Todos json.RawMessage `json:"todos"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		for _, field := range []json.RawMessage{wrapper.Data, wrapper.Todos} {
			if isArray(field) {
				return decodeArray(field)
			}
		}
		return nil, fmt.Errorf("%w: object without data or todos list", ErrMalformedResponse)
	}
	return nil, fmt.Errorf("%w: unexpected %q", ErrMalformedResponse, firstToken(body))
}

func decodeArray(body []byte) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func isArray(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '['
}

func firstToken(body []byte) string {
	if len(body) > 16 {
		return string(body[:16]) + "..."
	}
	return string(body)
}
