package worker

import (
	"encoding/json"

	"github.com/momentumlabs/docflow/internal/domain"
)

func decodeProgressUpdate(raw []byte) (ProgressUpdate, error) {
	var event domain.ProgressEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return ProgressUpdate{}, err
	}

	var errMsg *string
	if event.ErrorMessage != "" {
		errMsg = &event.ErrorMessage
	}

	return ProgressUpdate{
		JobID:        event.JobID.String(),
		DocumentID:   event.DocumentID.String(),
		Status:       string(event.Status),
		Progress:     event.Progress,
		Message:      event.Message,
		CurrentPage:  event.CurrentPage,
		TotalPages:   event.TotalPages,
		ErrorMessage: errMsg,
		PublishedAt:  event.PublishedAt,
	}, nil
}
