package bridge

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/momentumlabs/docflow/core/handler"
	"github.com/momentumlabs/docflow/core/response"
	"github.com/momentumlabs/docflow/core/router"
	"github.com/momentumlabs/docflow/internal/store"
)

// RegisterRoutes mounts the progress stream and the collaboration socket,
// the dedicated namespace spec.md §6 reserves for it.
func RegisterRoutes[C handler.Context](r router.Router[C], streamer *Streamer, hub *Hub) {
	r.Get("/documents/{jobId}/progress", handleStreamProgress[C](streamer))
	r.Get("/ws/collaborate", handleCollaborate[C](hub))
}

func handleStreamProgress[C handler.Context](streamer *Streamer) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		jobID, err := uuid.Parse(ctx.Param("jobId"))
		if err != nil {
			return response.Error(response.ErrBadRequest.WithMessage("jobId must be a UUID"))
		}

		return func(w http.ResponseWriter, r *http.Request) error {
			err := streamer.StreamProgress(w, r, jobID)
			if errors.Is(err, store.ErrNotFound) {
				return response.JSONWithStatus(map[string]any{
					"statusCode": http.StatusNotFound,
					"message":    "job not found",
					"error":      "not_found",
				}, http.StatusNotFound)(w, r)
			}
			return err
		}
	}
}

func handleCollaborate[C handler.Context](hub *Hub) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return hub.Serve()
	}
}
