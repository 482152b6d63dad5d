package topics

import "errors"

var (
	// ErrStore wraps every storage failure: unreadable file, failed write,
	// unreachable Redis.
	ErrStore = errors.New("topic store failure")

	// ErrInvalidLocation is returned when a store is created without a path or key.
	ErrInvalidLocation = errors.New("topic store location is required")
)
