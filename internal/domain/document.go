// Package domain holds the core entities shared by every docflow binary:
// Document, ProcessingJob and the wire-shape ProgressEvent published on the
// event channel.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus is the lifecycle state of a Document.
type DocumentStatus string

const (
	DocumentUploaded   DocumentStatus = "uploaded"
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentFailed     DocumentStatus = "failed"
)

// Document is an uploaded artifact owned by exactly one principal.
type Document struct {
	ID         uuid.UUID
	OwnerID    string
	Title      string
	StorageKey string
	MIMEType   string
	Size       int64
	Status     DocumentStatus
	PageCount  *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DocumentPatch is a partial update applied by updateDocument.
type DocumentPatch struct {
	Status    *DocumentStatus
	PageCount *int
}
