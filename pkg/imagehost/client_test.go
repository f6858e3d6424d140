package imagehost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/dealerhub-backend/pkg/config"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "imagehost-test"})
	c, err := NewClient(context.Background(), config.ImageHostConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	}, logg)
	require.NoError(t, err)
	return c
}

func TestUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.NotEmpty(t, r.FormValue("image"))
		assert.Equal(t, "front.jpg", r.FormValue("name"))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"url":         "https://i.ibb.co/abc/front.jpg",
				"display_url": "https://i.ibb.co/abc/front.jpg",
				"delete_url":  "https://ibb.co/abc/delete",
				"width":       "800",
				"height":      600,
				"size":        12345,
			},
		})
	}))
	defer srv.Close()

	result, err := testClient(t, srv.URL).Upload(context.Background(), "front.jpg", []byte("fake-image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/abc/front.jpg", result.URL)
	assert.Equal(t, 800, result.Width)
	assert.Equal(t, 600, result.Height)
	assert.EqualValues(t, 12345, result.Size)
}

func TestUploadAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]any{"message": "invalid api key"},
		})
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).Upload(context.Background(), "x.jpg", []byte("bytes"))
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
	assert.Contains(t, appErr.Message(), "invalid api key")
}

func TestUploadRejectsEmptyPayload(t *testing.T) {
	c := testClient(t, "https://api.imgbb.com/1")
	_, err := c.Upload(context.Background(), "x.jpg", nil)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
