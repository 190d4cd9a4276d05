package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NewStorageError("failed to open database", fmt.Errorf("disk full"))
	assert.Equal(t, "[STORAGE] failed to open database: disk full", err.Error())

	bare := NewValidationError("year must be an integer")
	assert.Equal(t, "[VALIDATION] year must be an integer", bare.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewIngestError("failed to read header row", cause)
	assert.ErrorIs(t, err, cause)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad cell", nil).
		WithContext("row", 7).
		WithContext("column", "Total")

	assert.Equal(t, 7, err.Context["row"])
	assert.Equal(t, "Total", err.Context["column"])
}

func TestSentinelWrappers(t *testing.T) {
	assert.ErrorIs(t, NewUnsupportedFormatError(".pdf"), ErrUnsupportedFormat)
	assert.ErrorIs(t, NewEmptyResultError("all rows dropped"), ErrEmptyResult)
}

func TestToAPIError(t *testing.T) {
	h := NewErrorHandler(slog.Default())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "unsupported format", err: NewUnsupportedFormatError(".pdf"), wantStatus: http.StatusUnsupportedMediaType, wantCode: "UNSUPPORTED_FORMAT"},
		{name: "empty result", err: NewEmptyResultError("nothing"), wantStatus: http.StatusUnprocessableEntity, wantCode: "EMPTY_RESULT"},
		{name: "no data", err: ErrNoData, wantStatus: http.StatusNotFound, wantCode: "NO_DATA"},
		{name: "validation", err: NewValidationError("bad year"), wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "not found", err: NewNotFoundError("chart pie"), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "storage", err: NewStorageError("insert failed", nil), wantStatus: http.StatusInternalServerError, wantCode: "STORAGE_ERROR"},
		{name: "ingest", err: NewIngestError("bad row", nil), wantStatus: http.StatusBadRequest, wantCode: "BAD_UPLOAD"},
		{name: "unknown", err: errors.New("mystery"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_SERVER_ERROR"},
		{name: "passthrough api error", err: New(http.StatusTeapot, "TEAPOT", "short and stout"), wantStatus: http.StatusTeapot, wantCode: "TEAPOT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := h.toAPIError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"RATE_LIMIT_EXCEEDED"`)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestHandleError_RendersEnvelope(t *testing.T) {
	h := NewErrorHandler(slog.Default())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	h.HandleError(rec, req, ErrNoData)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"NO_DATA"`)
}
