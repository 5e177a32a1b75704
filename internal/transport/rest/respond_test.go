package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

func TestHandleError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("clip 3: %w", domain.ErrNotFound), http.StatusNotFound},
		{"validation", domain.NewValidationError("name", "required"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("ctx: %w", domain.NewValidationError("name", "required")), http.StatusBadRequest},
		{"read-only", fmt.Errorf("save: %w", domain.ErrReadOnly), http.StatusConflict},
		{"too large", fmt.Errorf("save: %w", domain.ErrTooLarge), http.StatusRequestEntityTooLarge},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"corrupt", fmt.Errorf("load: %w", domain.ErrCorrupt), http.StatusUnprocessableEntity},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			handleError(log, rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHandleError_ValidationFields(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := domain.NewValidationErrors([]domain.FieldError{
		{Field: "phrase", Message: "required"},
		{Field: "soundClipIds", Message: "at least one required"},
	})
	handleError(slog.New(slog.NewTextHandler(io.Discard, nil)), rec, httptest.NewRequest(http.MethodPost, "/", nil), err)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "validation: 2 errors", resp.Error)
	require.Len(t, resp.Fields, 2)
	assert.Equal(t, "soundClipIds", resp.Fields[1].Field)
}

func TestHandleError_HidesInternalDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handleError(slog.New(slog.NewTextHandler(io.Discard, nil)), rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password=secret"))

	assert.NotContains(t, rec.Body.String(), "secret")
}
