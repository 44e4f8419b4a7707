package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/momentumlabs/docflow/integration/database/pg"
	"github.com/momentumlabs/docflow/internal/domain"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore is the Postgres-backed implementation of Store, built on
// jackc/pgx/v5 and the teacher's pg.WithTx/pg.TxFromContext transaction
// propagation pattern.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx, letting write paths
// transparently participate in an ambient transaction via pg.TxFromContext.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PostgresStore) CreateDocumentAndJob(ctx context.Context, ownerID, title, storageKey, mimeType string, size int64) (uuid.UUID, uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("store: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	documentID := uuid.New()
	jobID := uuid.New()
	now := time.Now().UTC()

	const insertDocument = `
		INSERT INTO documents (id, owner_id, title, storage_key, mime_type, size, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	if _, err := tx.Exec(ctx, insertDocument, documentID, ownerID, title, storageKey, mimeType, size, domain.DocumentUploaded, now); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("store: insert document: %w", err)
	}

	const insertJob = `
		INSERT INTO processing_jobs (id, document_id, status, progress, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)`
	if _, err := tx.Exec(ctx, insertJob, jobID, documentID, domain.JobPending, now); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("store: insert job: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("store: commit transaction: %w", err)
	}

	return documentID, jobID, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, documentID uuid.UUID) (uuid.UUID, error) {
	jobID := uuid.New()
	now := time.Now().UTC()

	const insertJob = `
		INSERT INTO processing_jobs (id, document_id, status, progress, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)`
	exec := execer(ctx, s.pool)
	if _, err := exec.Exec(ctx, insertJob, jobID, documentID, domain.JobPending, now); err != nil {
		return uuid.Nil, fmt.Errorf("store: insert job: %w", err)
	}

	return jobID, nil
}

func (s *PostgresStore) FindJobByID(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	const q = `
		SELECT id, document_id, status, progress, result, error_message, started_at, completed_at, created_at, updated_at
		FROM processing_jobs WHERE id = $1`

	row := s.pool.QueryRow(ctx, q, jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: find job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) FindDocument(ctx context.Context, documentID uuid.UUID, ownerID string) (*domain.Document, error) {
	q := `
		SELECT id, owner_id, title, storage_key, mime_type, size, status, page_count, created_at, updated_at
		FROM documents WHERE id = $1`
	args := []any{documentID}
	if ownerID != "" {
		q += " AND owner_id = $2"
		args = append(args, ownerID)
	}

	row := s.pool.QueryRow(ctx, q, args...)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: find document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) TransitionJob(ctx context.Context, jobID uuid.UUID, patch domain.JobPatch) error {
	exec := execer(ctx, s.pool)

	sets := []string{"updated_at = now()"}
	args := []any{}
	i := 1

	add := func(col string, val any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, val)
		i++
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Progress != nil {
		add("progress", *patch.Progress)
	}
	if patch.ErrorMessage != nil {
		add("error_message", *patch.ErrorMessage)
	}
	if patch.StartedAt != nil {
		add("started_at", *patch.StartedAt)
	}
	if patch.CompletedAt != nil {
		add("completed_at", *patch.CompletedAt)
	}
	if patch.Result != nil {
		add("result", patch.Result)
	}

	q := fmt.Sprintf("UPDATE processing_jobs SET %s WHERE id = $1", joinSets(sets))
	args = append([]any{jobID}, args...)

	tag, err := exec.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("store: transition job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, documentID uuid.UUID, patch domain.DocumentPatch) error {
	exec := execer(ctx, s.pool)

	sets := []string{"updated_at = now()"}
	args := []any{}
	i := 1

	add := func(col string, val any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, val)
		i++
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PageCount != nil {
		add("page_count", *patch.PageCount)
	}

	q := fmt.Sprintf("UPDATE documents SET %s WHERE id = $1", joinSets(sets))
	args = append([]any{documentID}, args...)

	tag, err := exec.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("store: update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindRunningJobForDocument(ctx context.Context, documentID uuid.UUID) (*domain.Job, error) {
	const q = `
		SELECT id, document_id, status, progress, result, error_message, started_at, completed_at, created_at, updated_at
		FROM processing_jobs WHERE document_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1`

	row := s.pool.QueryRow(ctx, q, documentID, domain.JobRunning)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: find running job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, documentID uuid.UUID, ownerID string) error {
	const q = `DELETE FROM documents WHERE id = $1 AND owner_id = $2`
	tag, err := s.pool.Exec(ctx, q, documentID, ownerID)
	if err != nil {
		return fmt.Errorf("store: delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// execer returns the ambient transaction from ctx (set via pg.WithTx) when
// present, falling back to the pool otherwise.
func execer(ctx context.Context, pool *pgxpool.Pool) dbtx {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return pool
}
