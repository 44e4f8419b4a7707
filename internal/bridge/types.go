package bridge

import "time"

// Heartbeat interval, max stream lifetime and SSE retry directive, per
// spec.md §6's tuning constants.
const (
	HeartbeatInterval = 25 * time.Second
	MaxStreamLifetime = 5 * time.Minute
	RetryMillis       = 3000
)

// progressFrame is the `progress`/`error` event data payload.
type progressFrame struct {
	JobID        string    `json:"jobId"`
	DocumentID   string    `json:"documentId"`
	Percent      int       `json:"percent"`
	Stage        string    `json:"stage"`
	Message      string    `json:"message"`
	CurrentPage  int       `json:"currentPage"`
	TotalPages   int       `json:"totalPages"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// timeoutFrame is the `timeout` event data payload.
type timeoutFrame struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}
