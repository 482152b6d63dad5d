package dispatch

import "errors"

var (
	ErrStoreNil    = errors.New("dispatch: store cannot be nil")
	ErrNotifierNil = errors.New("dispatch: notifier cannot be nil")
)
