package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a ProcessingJob.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobResult is the optional structured result attached to a completed job.
// Populated by the best-effort page-summary enrichment step; absence leaves
// Result unset without violating any job invariant.
type JobResult struct {
	Summary string `json:"summary"`
	Model   string `json:"model"`
}

// Job is a single processing attempt on a Document.
type Job struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	Status      JobStatus
	Progress    int
	Result      *JobResult
	ErrorMessage *string
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobPatch is a partial update applied by transitionJob.
type JobPatch struct {
	Status       *JobStatus
	Progress     *int
	ErrorMessage *string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	Result       *JobResult
}
