package bridge

import "errors"

// ErrNotFound mirrors store.ErrNotFound for callers that only import bridge.
var ErrNotFound = errors.New("bridge: job not found")
