package storage

import "errors"

var (
	ErrInvalidConfig      = errors.New("storage: invalid configuration")
	ErrNilFileHeader      = errors.New("storage: file header is nil")
	ErrFailedToOpenFile   = errors.New("storage: failed to open file")
	ErrInvalidPath        = errors.New("storage: invalid path")
	ErrDirectoryNotFound  = errors.New("storage: directory not found")
	ErrPaginatorNil       = errors.New("storage: paginator not available for this client")
	ErrOperationTimeout   = errors.New("storage: operation timed out")
	ErrOperationCanceled  = errors.New("storage: operation canceled")
	ErrFileNotFound       = errors.New("storage: file not found")
	ErrBucketNotFound     = errors.New("storage: bucket not found")
	ErrAccessDenied       = errors.New("storage: access denied")
	ErrRequestTimeout     = errors.New("storage: request timeout")
	ErrServiceUnavailable = errors.New("storage: service unavailable")
	ErrInvalidObjectState = errors.New("storage: invalid object state")
)
