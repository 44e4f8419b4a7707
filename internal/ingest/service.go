// Package ingest implements the Ingest Orchestrator (C4): validates an
// upload, stores its bytes, transactionally creates a Document+Job via the
// durable store, and dispatches the job to the worker pipeline with a
// bounded timeout that never fails the upload itself.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/momentumlabs/docflow/core/storage"
	"github.com/momentumlabs/docflow/internal/domain"
	"github.com/momentumlabs/docflow/internal/store"
	"github.com/momentumlabs/docflow/internal/worker"
	"github.com/momentumlabs/docflow/internal/workerclient"
)

// Service implements the single upload() operation.
type Service struct {
	store   store.Store
	storage storage.Storage
	worker  *workerclient.Client
	logger  *slog.Logger
}

func NewService(st store.Store, stg storage.Storage, wc *workerclient.Client, logger *slog.Logger) *Service {
	return &Service{store: st, storage: stg, worker: wc, logger: logger}
}

// Upload validates, stores and registers fh as a new Document, then
// attempts to dispatch it for processing. It returns the response body and
// the HTTP status it should be served with: 201 on a successful dispatch,
// 202 when dispatch failed but the upload itself succeeded.
func (s *Service) Upload(ctx context.Context, ownerID, title string, fh *multipart.FileHeader) (Result, int, error) {
	if fh == nil || fh.Size == 0 {
		return Result{}, 0, ErrMissingFile
	}

	mimeType, err := storage.GetMIMEType(fh)
	if err != nil {
		return Result{}, 0, fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}
	if _, ok := allowedMIMETypes[mimeType]; !ok {
		return Result{}, 0, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mimeType)
	}
	if fh.Size > MaxUploadSize {
		return Result{}, 0, ErrPayloadTooLarge
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(fh.Filename)
	}

	now := time.Now().UTC()
	key := storageKey(title, fh.Filename, now)

	if _, err := s.storage.Save(ctx, fh, key); err != nil {
		return Result{}, 0, fmt.Errorf("%w: %v", ErrBadGateway, err)
	}

	documentID, jobID, err := s.store.CreateDocumentAndJob(ctx, ownerID, title, key, mimeType, fh.Size)
	if err != nil {
		return Result{}, 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	result := Result{
		DocumentID: documentID.String(),
		JobID:      jobID.String(),
		Status:     string(domain.JobPending),
		Title:      title,
		StorageKey: key,
		Size:       fh.Size,
		MIMEType:   mimeType,
		CreatedAt:  now,
	}

	// The upload has already succeeded at this point; a dispatch failure
	// here is never fatal to it, and must not be cancelled by the inbound
	// request's own context if the client disconnects right after upload.
	accepted, err := s.worker.StartProcessing(context.WithoutCancel(ctx), worker.StartProcessingRequest{
		DocumentID: documentID.String(),
		OwnerID:    ownerID,
		StorageKey: key,
		MIMEType:   mimeType,
	})
	if err != nil {
		s.logger.Warn("ingest: dispatch to worker failed, job remains pending for reconciliation",
			"documentId", documentID, "jobId", jobID, "error", err)
		return result, http.StatusAccepted, nil
	}

	result.JobID = accepted.JobID
	result.Status = accepted.Status
	return result, http.StatusCreated, nil
}
