package worker

import "time"

// StartProcessingRequest is the StartProcessing RPC input.
type StartProcessingRequest struct {
	DocumentID string `json:"documentId"`
	OwnerID    string `json:"ownerId"`
	StorageKey string `json:"storageKey"`
	MIMEType   string `json:"mimeType"`
}

// Accepted is the StartProcessing RPC output.
type Accepted struct {
	JobID       string    `json:"jobId"`
	Status      string    `json:"status"`
	AcceptedAt  time.Time `json:"acceptedAt"`
}

// ProgressUpdate is one item of the ObserveProgress server-stream.
type ProgressUpdate struct {
	JobID        string  `json:"jobId"`
	DocumentID   string  `json:"documentId"`
	Status       string  `json:"status"`
	Progress     int     `json:"progress"`
	Message      string  `json:"message"`
	CurrentPage  int     `json:"currentPage"`
	TotalPages   int     `json:"totalPages"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
	PublishedAt  time.Time `json:"publishedAt"`
}

// rpcError is the JSON error body returned by the internal RPC surface.
type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
