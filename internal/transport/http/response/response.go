package response

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/transport/http/dto"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

const maxBodyBytes = 1 << 20

// DecodeFields reads a JSON object body.
func DecodeFields(w http.ResponseWriter, r *http.Request) (dto.Fields, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Join(dto.ErrMalformed, err)
	}

	var f dto.Fields
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, errors.Join(dto.ErrMalformed, errors.New("body must be a JSON object"))
	}
	if f == nil {
		f = dto.Fields{}
	}
	return f, nil
}

func JSON(ctx context.Context, w http.ResponseWriter, code int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Error(ctx, "encode response", logger.ErrorF(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(payload); err != nil {
		logger.Error(ctx, "write response", logger.ErrorF(err))
	}
}

// Error answers with the status that matches err.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	code := StatusOf(err)
	JSON(ctx, w, code, dto.Error{Code: code, Message: err.Error()})
}

func StatusOf(err error) int {
	switch {
	case model.IsValidation(err), errors.Is(err, dto.ErrMalformed):
		return http.StatusBadRequest // 400
	case model.IsNotFound(err):
		return http.StatusNotFound // 404
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict // 409
	case errors.Is(err, model.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
