package ingest

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/momentumlabs/docflow/core/handler"
	"github.com/momentumlabs/docflow/core/response"
	"github.com/momentumlabs/docflow/core/router"
	"github.com/momentumlabs/docflow/internal/authn"
)

// RegisterRoutes mounts the single upload operation spec.md §7 names.
func RegisterRoutes[C handler.Context](r router.Router[C], svc *Service) {
	r.Post("/documents/upload", handleUpload[C](svc))
}

func handleUpload[C handler.Context](svc *Service) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		ownerID, ok := authn.OwnerID(ctx)
		if !ok {
			return response.Error(response.ErrUnauthorized)
		}

		req := ctx.Request()
		if err := req.ParseMultipartForm(MaxUploadSize); err != nil {
			return response.Error(response.ErrBadRequest.WithMessage("malformed multipart body"))
		}

		file, header, err := req.FormFile("file")
		if err != nil {
			return response.Error(response.ErrBadRequest.WithMessage("missing_file"))
		}
		_ = file.Close()

		title := req.FormValue("title")
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return response.Error(response.ErrBadRequest.WithMessage(fmt.Sprintf("title exceeds %d characters", MaxTitleLength)))
		}

		result, status, err := svc.Upload(req.Context(), ownerID, title, header)
		if err != nil {
			return response.Error(mapUploadError(err))
		}

		return response.JSONWithStatus(result, status)
	}
}

func mapUploadError(err error) response.HTTPError {
	switch {
	case errors.Is(err, ErrMissingFile):
		return response.ErrBadRequest.WithMessage("missing_file").WithError(err)
	case errors.Is(err, ErrUnsupportedMediaType):
		return response.ErrUnsupportedMediaType.WithMessage("unsupported_media_type").WithError(err)
	case errors.Is(err, ErrPayloadTooLarge):
		return response.ErrRequestEntityTooLarge.WithMessage("payload_too_large")
	case errors.Is(err, ErrBadGateway):
		return response.ErrBadGateway.WithMessage("bad_gateway").WithError(err)
	default:
		return response.ErrInternalServerError.WithMessage("internal").WithError(err)
	}
}
