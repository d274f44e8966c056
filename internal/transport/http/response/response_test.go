package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/transport/http/dto"
)

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("op: %w", model.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("op: %w", model.ErrInvalidStatus), http.StatusBadRequest},
		{fmt.Errorf("op: %w", model.ErrUnknownKind), http.StatusBadRequest},
		{dto.ErrMalformed, http.StatusBadRequest},
		{fmt.Errorf("op: %w", model.ErrAssetNotFound), http.StatusNotFound},
		{fmt.Errorf("op: %w", model.ErrEmployeeNotFound), http.StatusNotFound},
		{fmt.Errorf("op: %w", model.ErrConflict), http.StatusConflict},
		{fmt.Errorf("op: %w", model.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestErrorBody(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Error(context.Background(), rec, fmt.Errorf("inventory.service.Asset: %w", model.ErrAssetNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":404,"message":"inventory.service.Asset: asset not found"}`, rec.Body.String())
}

func TestDecodeFields(t *testing.T) {
	t.Parallel()

	t.Run("object", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"brand":"Logi","assigned_to":null}`))
		f, err := DecodeFields(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.True(t, f.Has("brand"))
		assert.True(t, f.IsNull("assigned_to"))
		assert.False(t, f.Has("model"))
	})

	t.Run("array is rejected", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2]`))
		_, err := DecodeFields(httptest.NewRecorder(), req)
		require.ErrorIs(t, err, dto.ErrMalformed)
	})

	t.Run("broken json", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"brand":`))
		_, err := DecodeFields(httptest.NewRecorder(), req)
		require.ErrorIs(t, err, dto.ErrMalformed)
	})
}
