// Package store implements the durable store (C2): transactional
// persistence of Documents and ProcessingJobs.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/momentumlabs/docflow/internal/domain"
)

// ErrNotFound is returned when a lookup finds no matching row.
var ErrNotFound = errors.New("store: not found")

// Store is the C2 contract. Implementations are swappable: PostgresStore
// for production, MemoryStore for tests.
type Store interface {
	// CreateDocumentAndJob executes in one transaction: on any failure it
	// leaves no partial rows. Initial Document status is Uploaded; initial
	// Job status is Pending with progress 0.
	CreateDocumentAndJob(ctx context.Context, ownerID, title, storageKey, mimeType string, size int64) (documentID, jobID uuid.UUID, err error)

	// CreateJob creates a new Pending job for an existing document. Used by
	// StartProcessing whenever no job is Running for the document.
	CreateJob(ctx context.Context, documentID uuid.UUID) (jobID uuid.UUID, err error)

	// FindJobByID returns ErrNotFound when the job does not exist.
	FindJobByID(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)

	// FindDocument returns ErrNotFound when the document does not exist or
	// is not owned by ownerID. An empty ownerID skips the ownership filter.
	FindDocument(ctx context.Context, documentID uuid.UUID, ownerID string) (*domain.Document, error)

	// TransitionJob applies a partial update. Callers are responsible for
	// respecting the lifecycle invariants of the domain model.
	TransitionJob(ctx context.Context, jobID uuid.UUID, patch domain.JobPatch) error

	// UpdateDocument applies a partial update.
	UpdateDocument(ctx context.Context, documentID uuid.UUID, patch domain.DocumentPatch) error

	// FindRunningJobForDocument returns (nil, nil) when no job is Running.
	FindRunningJobForDocument(ctx context.Context, documentID uuid.UUID) (*domain.Job, error)

	// DeleteDocument cascades to Jobs and any collaboration artifacts.
	DeleteDocument(ctx context.Context, documentID uuid.UUID, ownerID string) error
}
