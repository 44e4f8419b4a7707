package store

import (
	"encoding/json"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/momentumlabs/docflow/internal/domain"
)

func joinSets(sets []string) string {
	return strings.Join(sets, ", ")
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	var resultRaw []byte

	if err := row.Scan(
		&job.ID,
		&job.DocumentID,
		&job.Status,
		&job.Progress,
		&resultRaw,
		&job.ErrorMessage,
		&job.StartedAt,
		&job.CompletedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(resultRaw) > 0 {
		var result domain.JobResult
		if err := json.Unmarshal(resultRaw, &result); err == nil {
			job.Result = &result
		}
	}

	return &job, nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document

	if err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.StorageKey,
		&doc.MIMEType,
		&doc.Size,
		&doc.Status,
		&doc.PageCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &doc, nil
}
