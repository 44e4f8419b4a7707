package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/momentumlabs/docflow/internal/domain"
	"github.com/momentumlabs/docflow/internal/enrichment"
	"github.com/momentumlabs/docflow/internal/eventbus"
	"github.com/momentumlabs/docflow/internal/store"
	"github.com/momentumlabs/docflow/pkg/async"
)

// pageCount is the fixed simulated page count used when no extractor is
// present.
const pageCount = 12

// perPageDelay is the simulated per-page processing duration.
const perPageDelay = 400 * time.Millisecond

// Engine runs the background execution procedure for accepted jobs. Many
// tasks run concurrently; tasks share nothing but the store and event bus.
type Engine struct {
	store    store.Store
	bus      eventbus.EventBus
	logger   *slog.Logger
	enricher enrichment.Enricher
}

// EngineOption configures optional Engine behavior.
type EngineOption func(*Engine)

// WithEnricher attaches the optional page-summary follow-up step. When
// unset, a completed job's Result simply stays nil.
func WithEnricher(e enrichment.Enricher) EngineOption {
	return func(eng *Engine) { eng.enricher = e }
}

func NewEngine(st store.Store, bus eventbus.EventBus, logger *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{store: st, bus: bus, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dispatch launches the per-task procedure for jobID without waiting for it
// to complete. Grounded on pkg/async.Exec, with added panic recovery: the
// teacher's Exec has none, and a crashed task must never stall or panic the
// process.
func (e *Engine) Dispatch(documentID, jobID uuid.UUID) {
	async.Exec(context.Background(), jobID, func(ctx context.Context, jobID uuid.UUID) (err error) {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("worker: task panicked", "jobId", jobID, "recovered", r)
				e.fail(ctx, documentID, jobID, fmt.Errorf("panic: %v", r))
			}
		}()

		if err := e.run(ctx, documentID, jobID); err != nil {
			e.fail(ctx, documentID, jobID, err)
		}
		return nil
	})
}

func (e *Engine) run(ctx context.Context, documentID, jobID uuid.UUID) error {
	now := time.Now().UTC()
	running := domain.JobRunning
	zero := 0
	if err := e.store.TransitionJob(ctx, jobID, domain.JobPatch{
		Status:    &running,
		Progress:  &zero,
		StartedAt: &now,
	}); err != nil {
		return fmt.Errorf("transition to running: %w", err)
	}

	if err := e.publish(ctx, jobID, documentID, domain.JobRunning, 0, 0, pageCount,
		fmt.Sprintf("Processing started — %d pages queued", pageCount), ""); err != nil {
		e.logger.Warn("worker: publish initial event failed", "jobId", jobID, "error", err)
	}

	for p := 1; p <= pageCount; p++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(perPageDelay):
		}

		progress := (p * 95) / pageCount
		if err := e.store.TransitionJob(ctx, jobID, domain.JobPatch{Progress: &progress}); err != nil {
			return fmt.Errorf("persist page %d progress: %w", p, err)
		}

		if err := e.publish(ctx, jobID, documentID, domain.JobRunning, progress, p, pageCount,
			fmt.Sprintf("Processing page %d of %d", p, pageCount), ""); err != nil {
			e.logger.Warn("worker: publish page event failed", "jobId", jobID, "page", p, "error", err)
		}
	}

	completedAt := time.Now().UTC()
	completed := domain.JobCompleted
	hundred := 100
	if err := e.store.TransitionJob(ctx, jobID, domain.JobPatch{
		Status:      &completed,
		Progress:    &hundred,
		CompletedAt: &completedAt,
	}); err != nil {
		return fmt.Errorf("transition to completed: %w", err)
	}

	docCompleted := domain.DocumentCompleted
	pages := pageCount
	if err := e.store.UpdateDocument(ctx, documentID, domain.DocumentPatch{
		Status:    &docCompleted,
		PageCount: &pages,
	}); err != nil {
		return fmt.Errorf("update document completed: %w", err)
	}

	if err := e.publish(ctx, jobID, documentID, domain.JobCompleted, 100, pageCount, pageCount,
		fmt.Sprintf("Processing complete — %d pages extracted", pageCount), ""); err != nil {
		e.logger.Warn("worker: publish completed event failed", "jobId", jobID, "error", err)
	}

	e.enrich(ctx, jobID)

	return nil
}

// enrich runs the optional page-summary follow-up. Best-effort: a failure
// here is logged and never affects the job's already-Completed status.
func (e *Engine) enrich(ctx context.Context, jobID uuid.UUID) {
	if e.enricher == nil {
		return
	}

	result, err := e.enricher.Summarize(ctx, pageCount)
	if err != nil {
		e.logger.Warn("worker: enrichment failed", "jobId", jobID, "error", err)
		return
	}

	if err := e.store.TransitionJob(ctx, jobID, domain.JobPatch{Result: &result}); err != nil {
		e.logger.Warn("worker: failed to persist enrichment result", "jobId", jobID, "error", err)
	}
}

// fail runs the failure path: persist-then-publish, double-logging a
// persistence failure and silently tolerating a publish failure.
func (e *Engine) fail(ctx context.Context, documentID, jobID uuid.UUID, cause error) {
	msg := cause.Error()
	completedAt := time.Now().UTC()
	failed := domain.JobFailed

	if err := e.store.TransitionJob(ctx, jobID, domain.JobPatch{
		Status:       &failed,
		ErrorMessage: &msg,
		CompletedAt:  &completedAt,
	}); err != nil {
		e.logger.Error("worker: failed to persist failed job", "jobId", jobID, "cause", msg, "persistError", err)
		e.logger.Error("worker: job failed and is now unreconciled", "jobId", jobID)
	}

	docFailed := domain.DocumentFailed
	_ = e.store.UpdateDocument(ctx, documentID, domain.DocumentPatch{Status: &docFailed})

	_ = e.publish(ctx, jobID, documentID, domain.JobFailed, 0, 0, pageCount, msg, msg)
}

func (e *Engine) publish(ctx context.Context, jobID, documentID uuid.UUID, status domain.JobStatus, progress, currentPage, totalPages int, message string, errMsg string) error {
	event := domain.ProgressEvent{
		JobID:        jobID,
		DocumentID:   documentID,
		Status:       status,
		Progress:     progress,
		Message:      message,
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		ErrorMessage: errMsg,
		PublishedAt:  time.Now().UTC(),
	}
	_, err := e.bus.Publish(ctx, domain.ProgressChannel(jobID), event)
	return err
}
