package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProgressEvent is the wire shape published on a job's event channel. It is
// never persisted; the durable store is the authoritative record.
type ProgressEvent struct {
	JobID        uuid.UUID `json:"jobId"`
	DocumentID   uuid.UUID `json:"documentId"`
	Status       JobStatus `json:"status"`
	Progress     int       `json:"progress"`
	Message      string    `json:"message"`
	CurrentPage  int       `json:"currentPage"`
	TotalPages   int       `json:"totalPages"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	PublishedAt  time.Time `json:"publishedAt"`
}

// ProgressChannel returns the deterministic event channel key for a job.
func ProgressChannel(jobID uuid.UUID) string {
	return fmt.Sprintf("doc:%s:progress", jobID)
}

// RoomChannel returns the deterministic collaboration channel key for a
// document's room.
func RoomChannel(documentID uuid.UUID) string {
	return fmt.Sprintf("doc:%s", documentID)
}
