package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/momentumlabs/docflow/core/handler"
	"github.com/momentumlabs/docflow/core/response"
	"github.com/momentumlabs/docflow/core/router"
)

// RegisterRoutes mounts the RPC surface's two operations on r:
// POST /rpc/start-processing (unary) and GET /rpc/observe-progress/{jobId}
// (chunked-transfer server-stream, one JSON object per line).
func RegisterRoutes[C handler.Context](r router.Router[C], svc *Service) {
	r.Post("/rpc/start-processing", handleStartProcessing[C](svc))
	r.Get("/rpc/observe-progress/{jobId}", handleObserveProgress[C](svc))
}

func handleStartProcessing[C handler.Context](svc *Service) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		var req StartProcessingRequest
		if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
			return writeRPCError(rpcStatus(ErrInvalidArgument), "invalid_argument", "malformed request body")
		}

		accepted, err := svc.StartProcessing(ctx.Request().Context(), req)
		if err != nil {
			return writeRPCError(rpcStatus(err), rpcCode(err), err.Error())
		}

		return response.JSONWithStatus(accepted, http.StatusOK)
	}
}

func handleObserveProgress[C handler.Context](svc *Service) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		jobID := ctx.Param("jobId")

		return func(w http.ResponseWriter, r *http.Request) error {
			flusher, ok := w.(http.Flusher)
			if !ok {
				return fmt.Errorf("worker: response writer does not support flushing")
			}

			encoder := json.NewEncoder(w)
			headerWritten := false

			err := svc.ObserveProgress(r.Context(), jobID, func(update ProgressUpdate) error {
				if !headerWritten {
					w.Header().Set("Content-Type", "application/x-ndjson")
					w.WriteHeader(http.StatusOK)
					headerWritten = true
				}
				if err := encoder.Encode(update); err != nil {
					return err
				}
				flusher.Flush()
				return nil
			})

			if err != nil && !headerWritten {
				status := rpcStatus(err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				return json.NewEncoder(w).Encode(rpcError{Code: rpcCode(err), Message: err.Error()})
			}

			return nil
		}
	}
}

func rpcStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func rpcCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func writeRPCError(status int, code, message string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		return json.NewEncoder(w).Encode(rpcError{Code: code, Message: message})
	}
}
