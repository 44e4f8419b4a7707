package ingest

import "errors"

var (
	ErrMissingFile          = errors.New("ingest: missing file")
	ErrUnsupportedMediaType = errors.New("ingest: unsupported media type")
	ErrPayloadTooLarge      = errors.New("ingest: payload too large")
	ErrInternal             = errors.New("ingest: internal error")
	ErrBadGateway           = errors.New("ingest: storage upload failed")
)
