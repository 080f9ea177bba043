package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/upload/service"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

// FormField is the multipart field carrying the file.
const FormField = "file"

// multipart headers and boundaries on top of the file itself
const formOverhead = 1 << 20

type Service interface {
	Upload(ctx context.Context, data []byte) (*service.Result, error)
	MaxBytes() int64
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/upload", h.HandleUpload)
}

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := h.service.MaxBytes()

	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	file, _, err := r.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			httputil.WriteError(w, dErrors.Newf(dErrors.CodePayloadTooLarge, "file exceeds the %d MB limit", limit>>20))
		case errors.Is(err, http.ErrMissingFile):
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "file is required"))
		default:
			h.logger.InfoContext(ctx, "invalid multipart upload",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request must be multipart/form-data with a file field"))
		}
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read uploaded file"))
		return
	}

	res, err := h.service.Upload(ctx, data)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "upload failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, res, "File uploaded successfully")
}
