package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/momentumlabs/docflow/internal/domain"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store implementation for tests, grounded on
// the same mutex-guarded map pattern as pkg/ratelimiter.MemoryStore.
type MemoryStore struct {
	mu        sync.Mutex
	documents map[uuid.UUID]*domain.Document
	jobs      map[uuid.UUID]*domain.Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[uuid.UUID]*domain.Document),
		jobs:      make(map[uuid.UUID]*domain.Job),
	}
}

func (s *MemoryStore) CreateDocumentAndJob(_ context.Context, ownerID, title, storageKey, mimeType string, size int64) (uuid.UUID, uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	documentID := uuid.New()
	jobID := uuid.New()

	s.documents[documentID] = &domain.Document{
		ID:         documentID,
		OwnerID:    ownerID,
		Title:      title,
		StorageKey: storageKey,
		MIMEType:   mimeType,
		Size:       size,
		Status:     domain.DocumentUploaded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.jobs[jobID] = &domain.Job{
		ID:         jobID,
		DocumentID: documentID,
		Status:     domain.JobPending,
		Progress:   0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return documentID, jobID, nil
}

func (s *MemoryStore) CreateJob(_ context.Context, documentID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	jobID := uuid.New()
	s.jobs[jobID] = &domain.Job{
		ID:         jobID,
		DocumentID: documentID,
		Status:     domain.JobPending,
		Progress:   0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return jobID, nil
}

func (s *MemoryStore) FindJobByID(_ context.Context, jobID uuid.UUID) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *MemoryStore) FindDocument(_ context.Context, documentID uuid.UUID, ownerID string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[documentID]
	if !ok || (ownerID != "" && doc.OwnerID != ownerID) {
		return nil, ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (s *MemoryStore) TransitionJob(_ context.Context, jobID uuid.UUID, patch domain.JobPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return ErrNotFound
	}

	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Progress != nil {
		job.Progress = *patch.Progress
	}
	if patch.ErrorMessage != nil {
		job.ErrorMessage = patch.ErrorMessage
	}
	if patch.StartedAt != nil {
		job.StartedAt = patch.StartedAt
	}
	if patch.CompletedAt != nil {
		job.CompletedAt = patch.CompletedAt
	}
	if patch.Result != nil {
		job.Result = patch.Result
	}
	job.UpdatedAt = time.Now().UTC()

	return nil
}

func (s *MemoryStore) UpdateDocument(_ context.Context, documentID uuid.UUID, patch domain.DocumentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[documentID]
	if !ok {
		return ErrNotFound
	}

	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.PageCount != nil {
		doc.PageCount = patch.PageCount
	}
	doc.UpdatedAt = time.Now().UTC()

	return nil
}

func (s *MemoryStore) FindRunningJobForDocument(_ context.Context, documentID uuid.UUID) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *domain.Job
	for _, job := range s.jobs {
		if job.DocumentID == documentID && job.Status == domain.JobRunning {
			if found == nil || job.CreatedAt.After(found.CreatedAt) {
				cp := *job
				found = &cp
			}
		}
	}
	return found, nil
}

func (s *MemoryStore) DeleteDocument(_ context.Context, documentID uuid.UUID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[documentID]
	if !ok || doc.OwnerID != ownerID {
		return ErrNotFound
	}

	delete(s.documents, documentID)
	for id, job := range s.jobs {
		if job.DocumentID == documentID {
			delete(s.jobs, id)
		}
	}

	return nil
}
