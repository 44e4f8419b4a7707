package ingest

import (
	"time"
)

// MaxTitleLength is the longest title upload() accepts; longer values are
// rejected rather than silently truncated.
const MaxTitleLength = 500

// MaxUploadSize is the configured per-request size ceiling spec.md §6 fixes
// at 50MiB, enforced twice: once by middleware.BodyLimit before the
// multipart body is read, once here against the resolved file size.
const MaxUploadSize = 50 * 1024 * 1024

// allowedMIMETypes is the upload allowlist from spec.md §4.4.
var allowedMIMETypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"image/webp":      {},
}

// Result is the response body for a successful (or dispatch-degraded)
// upload, per spec.md §4.4 step 4.
type Result struct {
	DocumentID string    `json:"documentId"`
	JobID      string    `json:"jobId"`
	Status     string    `json:"status"`
	Title      string    `json:"title"`
	StorageKey string    `json:"storageKey"`
	Size       int64     `json:"size"`
	MIMEType   string    `json:"mimeType"`
	CreatedAt  time.Time `json:"createdAt"`
}
