package faq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/pkg/formatter"
	"github.com/futig/fund-faq/internal/pkg/logger"
	"github.com/futig/fund-faq/internal/pkg/response"
	"github.com/futig/fund-faq/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	assistant  Assistant
	catalog    CatalogSource
	reloader   Reloader
	formatters *formatter.Factory
	validator  *validator.Validator
}

// NewHandler wires the FAQ endpoints. reloader may be nil.
func NewHandler(
	assistant Assistant,
	catalog CatalogSource,
	reloader Reloader,
	formatters *formatter.Factory,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		assistant:  assistant,
		catalog:    catalog,
		reloader:   reloader,
		formatters: formatters,
		validator:  validator,
	}
}

// Ask handles POST /api/v1/ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	req, err := h.decodeAsk(w, r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ans := h.assistant.Ask(ctx, req.Question)
	response.OK(w, toAnswerDTO(ans))
}

// Export handles POST /api/v1/ask/export?format=markdown|pdf|docx
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Export")

	format, err := h.validator.ValidateFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	f, err := h.formatters.Create(format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	req, err := h.decodeAsk(w, r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ans := h.assistant.Ask(ctx, req.Question)
	data, err := f.Format(formatter.NewDocument(req.Question, ans))
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to render answer", err)
		return
	}

	if err := response.Attachment(w, f.ContentType(), "answer"+f.FileExtension(), data); err != nil {
		ctxzap.Warn(ctx, "failed to write export", zap.Error(err))
	}
}

// ListSchemes handles GET /api/v1/schemes
func (h *Handler) ListSchemes(w http.ResponseWriter, r *http.Request) {
	schemes := h.catalog.Catalog().Schemes()
	response.OK(w, toSchemeDTOs(schemes))
}

// ReloadIndex handles POST /api/v1/index/reload
func (h *Handler) ReloadIndex(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ReloadIndex")

	if h.reloader == nil {
		h.handleUsecaseError(ctx, w, entity.ErrReloadNotSupported)
		return
	}

	n, err := h.reloader.Reload(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "index reloaded", zap.Int("chunks", n))
	response.OK(w, entity.ReloadIndexResponse{
		Status:     "reloaded",
		ChunkCount: n,
		ReloadedAt: time.Now().UTC(),
	})
}

func (h *Handler) decodeAsk(w http.ResponseWriter, r *http.Request) (*entity.AskRequest, error) {
	var req entity.AskRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON body: %v", entity.ErrInvalidParameter, err)
	}
	if err := h.validator.ValidateAsk(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrFormatDisabled):
		h.respondError(ctx, w, http.StatusNotImplemented, err.Error(), err)
	case errors.Is(err, entity.ErrReloadNotSupported):
		h.respondError(ctx, w, http.StatusNotImplemented, "index backend does not support reload", err)
	case errors.Is(err, entity.ErrIndexUnavailable), errors.Is(err, entity.ErrEmbeddingMismatch),
		errors.Is(err, entity.ErrDimensionMismatch), errors.Is(err, entity.ErrDuplicateChunk):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "index reload failed, previous index kept", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
