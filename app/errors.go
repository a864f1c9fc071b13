package app

import (
	"errors"
)

var (
	ErrTransport         = errors.New("remote store unavailable")
	ErrMalformedResponse = errors.New("malformed todo list response")
	ErrReload            = errors.New("change saved but reload failed")
	ErrInvalidFilter     = errors.New("invalid filter")
)

// TransportError wraps a RemoteStore failure with the operation that caused it.
// It matches ErrTransport with errors.Is.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// WriteApplied reports whether a mutation reached the server even though the
// returned error is non-nil (the follow-up reload failed).
func WriteApplied(err error) bool {
	return err == nil || errors.Is(err, ErrReload)
}
