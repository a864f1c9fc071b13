package cli

import (
	"errors"

	"todo-remote/app"
)

// Exit codes.
const (
	// ExitSuccess indicates successful completion.
	ExitSuccess = 0

	// ExitUserError indicates bad arguments or an unknown task id.
	ExitUserError = 1

	// ExitBackendError indicates the todo server failed or was unreachable.
	ExitBackendError = 3
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, app.ErrTransport),
		errors.Is(err, app.ErrMalformedResponse),
		errors.Is(err, app.ErrReload):
		return ExitBackendError
	default:
		return ExitUserError
	}
}
