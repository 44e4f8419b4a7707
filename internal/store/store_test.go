package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentumlabs/docflow/internal/domain"
	"github.com/momentumlabs/docflow/internal/store"
)

func TestMemoryStore_CreateDocumentAndJob(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	documentID, jobID, err := s.CreateDocumentAndJob(ctx, "owner-1", "report.pdf", "uploads/report.pdf", "application/pdf", 1024)
	require.NoError(t, err)

	doc, err := s.FindDocument(ctx, documentID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentUploaded, doc.Status)
	assert.Equal(t, documentID, doc.ID)

	job, err := s.FindJobByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPending, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, documentID, job.DocumentID)
}

func TestMemoryStore_FindDocument_WrongOwnerNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	documentID, _, err := s.CreateDocumentAndJob(ctx, "owner-1", "report.pdf", "uploads/report.pdf", "application/pdf", 1024)
	require.NoError(t, err)

	_, err = s.FindDocument(ctx, documentID, "owner-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_TransitionJob_NotFound(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	running := domain.JobRunning
	err := s.TransitionJob(ctx, uuid.New(), domain.JobPatch{Status: &running})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_TransitionJob_AppliesPartialPatch(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, jobID, err := s.CreateDocumentAndJob(ctx, "owner-1", "report.pdf", "uploads/report.pdf", "application/pdf", 1024)
	require.NoError(t, err)

	running := domain.JobRunning
	progress := 40
	require.NoError(t, s.TransitionJob(ctx, jobID, domain.JobPatch{Status: &running, Progress: &progress}))

	job, err := s.FindJobByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobRunning, job.Status)
	assert.Equal(t, 40, job.Progress)
}

func TestMemoryStore_FindRunningJobForDocument(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	documentID, jobID, err := s.CreateDocumentAndJob(ctx, "owner-1", "report.pdf", "uploads/report.pdf", "application/pdf", 1024)
	require.NoError(t, err)

	none, err := s.FindRunningJobForDocument(ctx, documentID)
	require.NoError(t, err)
	assert.Nil(t, none)

	running := domain.JobRunning
	require.NoError(t, s.TransitionJob(ctx, jobID, domain.JobPatch{Status: &running}))

	job, err := s.FindRunningJobForDocument(ctx, documentID)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, jobID, job.ID)
}

func TestMemoryStore_DeleteDocument_CascadesJobs(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	documentID, jobID, err := s.CreateDocumentAndJob(ctx, "owner-1", "report.pdf", "uploads/report.pdf", "application/pdf", 1024)
	require.NoError(t, err)

	require.NoError(t, s.DeleteDocument(ctx, documentID, "owner-1"))

	_, err = s.FindDocument(ctx, documentID, "owner-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.FindJobByID(ctx, jobID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_DeleteDocument_WrongOwnerFails(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	documentID, _, err := s.CreateDocumentAndJob(ctx, "owner-1", "report.pdf", "uploads/report.pdf", "application/pdf", 1024)
	require.NoError(t, err)

	err = s.DeleteDocument(ctx, documentID, "owner-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
