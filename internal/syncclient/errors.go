package syncclient

import "errors"

var (
	// ErrUnreachable covers transport failures and 5xx answers.
	ErrUnreachable = errors.New("server unreachable")
	// ErrNotFound is a 404 from the server.
	ErrNotFound = errors.New("not found on server")
	// ErrRejected is any other 4xx from the server.
	ErrRejected = errors.New("rejected by server")

	ErrNotInConflict = errors.New("task is not in conflict")
	ErrInvalidTheme  = errors.New("theme must be light or dark")
)

// IsUnreachable reports whether err means the server could not be reached.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
