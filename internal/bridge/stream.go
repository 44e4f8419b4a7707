// Package bridge implements the Progress Stream Bridge (C5): a
// Server-Sent Events endpoint delivering live job progress, plus a
// websocket collaboration fan-out scoped per document.
package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/momentumlabs/docflow/internal/domain"
	"github.com/momentumlabs/docflow/internal/eventbus"
	"github.com/momentumlabs/docflow/internal/store"
)

// Streamer serves streamProgress over a durable store and event channel.
type Streamer struct {
	store store.Store
	bus   eventbus.EventBus
	log   *slog.Logger
}

func NewStreamer(st store.Store, bus eventbus.EventBus, logger *slog.Logger) *Streamer {
	return &Streamer{store: st, bus: bus, log: logger}
}

// StreamProgress implements the connection state machine of spec.md §4.5.1:
// opening -> snapshotting -> { closing | streaming } -> closed. It returns
// store.ErrNotFound when jobID has no row; callers respond 404 JSON without
// ever switching to the push-stream media type.
func (s *Streamer) StreamProgress(w http.ResponseWriter, r *http.Request, jobID uuid.UUID) error {
	job, err := s.store.FindJobByID(r.Context(), jobID)
	if err != nil {
		return err
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("bridge: response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeRetry(w, RetryMillis); err != nil {
		return nil
	}
	flusher.Flush()

	counter := 1
	snapshot := snapshotFrame(job)
	if err := writeFrame(w, counter, "progress", snapshot); err != nil {
		return nil
	}
	flusher.Flush()

	if job.Status.Terminal() {
		return nil
	}

	return s.streamLive(w, r, flusher, jobID, job.DocumentID, counter)
}

func (s *Streamer) streamLive(w http.ResponseWriter, r *http.Request, flusher http.Flusher, jobID, documentID uuid.UUID, counter int) error {
	sub, err := s.bus.Subscribe(r.Context(), domain.ProgressChannel(jobID))
	if err != nil {
		return nil
	}

	var once sync.Once
	closeSub := func() { once.Do(sub.Close) }
	defer closeSub()

	heartbeat := time.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()

	lifetime := time.NewTimer(MaxStreamLifetime)
	defer lifetime.Stop()

	for {
		select {
		case <-r.Context().Done():
			return nil

		case <-heartbeat.C:
			if err := writeHeartbeat(w); err != nil {
				return nil
			}
			flusher.Flush()

		case <-lifetime.C:
			counter++
			_ = writeFrame(w, counter, "timeout", timeoutFrame{
				JobID:   jobID.String(),
				Message: "Stream timed out — please reconnect or check job status via API",
			})
			flusher.Flush()
			return nil

		case raw, ok := <-sub.Messages():
			if !ok {
				return nil
			}
			var event domain.ProgressEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				s.log.Warn("bridge: malformed progress event", "jobId", jobID, "error", err)
				continue
			}
			counter++
			frame := progressFrame{
				JobID:        event.JobID.String(),
				DocumentID:   event.DocumentID.String(),
				Percent:      event.Progress,
				Stage:        strUpper(string(event.Status)),
				Message:      event.Message,
				CurrentPage:  event.CurrentPage,
				TotalPages:   event.TotalPages,
				ErrorMessage: event.ErrorMessage,
				Timestamp:    event.PublishedAt,
			}
			if err := writeFrame(w, counter, "progress", frame); err != nil {
				return nil
			}
			flusher.Flush()
			if event.Status.Terminal() {
				return nil
			}

		case subErr, ok := <-sub.Errors():
			if !ok {
				continue
			}
			counter++
			_ = writeFrame(w, counter, "error", progressFrame{
				JobID:        jobID.String(),
				DocumentID:   documentID.String(),
				Percent:      0,
				Stage:        "FAILED",
				Message:      "Stream error — please retry",
				ErrorMessage: subErr.Error(),
				Timestamp:    time.Now().UTC(),
			})
			flusher.Flush()
			return nil
		}
	}
}

func snapshotFrame(job *domain.Job) progressFrame {
	message := statusMessage(job.Status, job.Progress, job.ErrorMessage)
	timestamp := job.UpdatedAt
	if timestamp.IsZero() {
		timestamp = job.CreatedAt
	}
	return progressFrame{
		JobID:       job.ID.String(),
		DocumentID:  job.DocumentID.String(),
		Percent:     job.Progress,
		Stage:       strUpper(string(job.Status)),
		Message:     message,
		CurrentPage: 0,
		TotalPages:  0,
		Timestamp:   timestamp,
	}
}

func statusMessage(status domain.JobStatus, progress int, errorMessage *string) string {
	switch status {
	case domain.JobPending:
		return "Job is queued for processing"
	case domain.JobRunning:
		return fmt.Sprintf("Processing in progress — %d%% complete", progress)
	case domain.JobCompleted:
		return "Processing completed successfully"
	case domain.JobFailed:
		if errorMessage != nil && *errorMessage != "" {
			return *errorMessage
		}
		return "Processing failed"
	default:
		return ""
	}
}

func strUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
