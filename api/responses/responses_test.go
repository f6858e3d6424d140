package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, "car created", map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "car created", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "abc", data["id"])
}

func TestWritePage(t *testing.T) {
	rec := httptest.NewRecorder()
	meta := pagination.Resolve(pagination.Params{Page: 2, PerPage: 10}, 23)
	WritePage(rec, "cars listed", []string{"a", "b"}, meta)

	body := decode(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["current_page"])
	assert.Equal(t, float64(3), data["last_page"])
	assert.Equal(t, float64(23), data["total"])
	assert.Equal(t, float64(11), data["from"])
	assert.Equal(t, float64(20), data["to"])
}

func TestWriteErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "car validation failed").
		WithDetails(map[string]string{"make": "is required"})
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "car validation failed", body["message"])
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "is required", errs["make"])
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "pg constraint exploded")
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, rec.Body.String(), "pg constraint")
}

func TestWriteErrorUntypedError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestWriteBlob(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteBlob(rec, "car-catalog-2026-09-01.pdf", "application/pdf", []byte("%PDF fake"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "car-catalog-2026-09-01.pdf")
	assert.Equal(t, "%PDF fake", rec.Body.String())
}
