package worker

import "errors"

// Sentinel errors returned by Service, translated to RPC status codes by
// the HTTP transport in internal/worker/http.go.
var (
	ErrInvalidArgument = errors.New("worker: invalid argument")
	ErrNotFound        = errors.New("worker: not found")
	ErrInternal        = errors.New("worker: internal error")
)
