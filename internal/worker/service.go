package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/momentumlabs/docflow/internal/domain"
	"github.com/momentumlabs/docflow/internal/enrichment"
	"github.com/momentumlabs/docflow/internal/eventbus"
	"github.com/momentumlabs/docflow/internal/store"
)

// Service is the C3 RPC surface: StartProcessing and ObserveProgress.
type Service struct {
	store  store.Store
	bus    eventbus.EventBus
	engine *Engine
	logger *slog.Logger
}

// ServiceOption configures optional Service behavior.
type ServiceOption func(*Service)

// WithEnricher attaches the optional page-summary follow-up step to the
// service's engine.
func WithEnricher(e enrichment.Enricher) ServiceOption {
	return func(s *Service) {
		s.engine = NewEngine(s.store, s.bus, s.logger, WithEnricher(e))
	}
}

func NewService(st store.Store, bus eventbus.EventBus, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:  st,
		bus:    bus,
		engine: NewEngine(st, bus, logger),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartProcessing implements spec.md §4.3.1: idempotent under retry (a
// Running job is returned as-is), never blocks on the processing loop.
func (s *Service) StartProcessing(ctx context.Context, req StartProcessingRequest) (Accepted, error) {
	if strings.TrimSpace(req.DocumentID) == "" || strings.TrimSpace(req.OwnerID) == "" {
		return Accepted{}, fmt.Errorf("%w: documentId and ownerId are required", ErrInvalidArgument)
	}

	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return Accepted{}, fmt.Errorf("%w: documentId is not a valid uuid", ErrInvalidArgument)
	}

	doc, err := s.store.FindDocument(ctx, documentID, req.OwnerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Accepted{}, fmt.Errorf("%w: document not found", ErrNotFound)
		}
		return Accepted{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if running, err := s.store.FindRunningJobForDocument(ctx, doc.ID); err != nil {
		return Accepted{}, fmt.Errorf("%w: %v", ErrInternal, err)
	} else if running != nil {
		return Accepted{
			JobID:      running.ID.String(),
			Status:     string(running.Status),
			AcceptedAt: running.CreatedAt,
		}, nil
	}

	jobID, err := s.store.CreateJob(ctx, documentID)
	if err != nil {
		return Accepted{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	processing := domain.DocumentProcessing
	if err := s.store.UpdateDocument(ctx, documentID, domain.DocumentPatch{Status: &processing}); err != nil {
		return Accepted{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	acceptedAt := time.Now().UTC()
	s.engine.Dispatch(documentID, jobID)

	return Accepted{
		JobID:      jobID.String(),
		Status:     string(domain.JobPending),
		AcceptedAt: acceptedAt,
	}, nil
}

// ObserveProgress implements spec.md §4.3.1's server-stream contract. send
// is called once per update, in order; a non-nil return from send stops the
// stream (used to propagate a disconnected client).
func (s *Service) ObserveProgress(ctx context.Context, jobIDStr string, send func(ProgressUpdate) error) error {
	jobID, err := uuid.Parse(jobIDStr)
	if err != nil {
		return fmt.Errorf("%w: jobId is not a valid uuid", ErrInvalidArgument)
	}

	job, err := s.store.FindJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: job not found", ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if job.Status.Terminal() {
		return send(jobToUpdate(job))
	}

	sub, err := s.bus.Subscribe(ctx, domain.ProgressChannel(jobID))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-sub.Messages():
			if !ok {
				return nil
			}
			update, err := decodeProgressUpdate(raw)
			if err != nil {
				s.logger.Warn("worker: malformed progress event", "jobId", jobIDStr, "error", err)
				continue
			}
			if err := send(update); err != nil {
				return err
			}
			if domain.JobStatus(update.Status).Terminal() {
				return nil
			}
		case err, ok := <-sub.Errors():
			if !ok {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}
}

func jobToUpdate(job *domain.Job) ProgressUpdate {
	var errMsg *string
	if job.ErrorMessage != nil {
		errMsg = job.ErrorMessage
	}
	updatedAt := job.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = job.CreatedAt
	}
	return ProgressUpdate{
		JobID:        job.ID.String(),
		DocumentID:   job.DocumentID.String(),
		Status:       string(job.Status),
		Progress:     job.Progress,
		CurrentPage:  0,
		TotalPages:   0,
		ErrorMessage: errMsg,
		PublishedAt:  updatedAt,
	}
}
