package jobs

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipstitch/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDownloadServer(t *testing.T, registry *Registry, deleteAfterDownload bool) *httptest.Server {
	t.Helper()
	router := gin.New()
	router.GET("/api/download/:id", NewHandler(registry, deleteAfterDownload, nil).Download)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestDownloadUnknownID(t *testing.T) {
	server := newDownloadServer(t, NewRegistry(time.Hour, nil), false)

	resp, err := http.Get(server.URL + "/api/download/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body response.Body
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}

func TestDownloadServesAttachment(t *testing.T) {
	registry := NewRegistry(time.Hour, nil)
	artifact := filepath.Join(t.TempDir(), "out.mp4")
	require.NoError(t, os.WriteFile(artifact, []byte("stitched"), 0644))
	job := registry.Insert(artifact, "")

	server := newDownloadServer(t, registry, false)
	resp, err := http.Get(server.URL + "/api/download/" + job.ID)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "stitched", string(raw))

	// Default policy keeps the job until eviction.
	_, err = registry.Lookup(job.ID)
	assert.NoError(t, err)
}

func TestDownloadDeleteAfterDownloadPolicy(t *testing.T) {
	registry := NewRegistry(time.Hour, nil)
	artifact := filepath.Join(t.TempDir(), "out.mp4")
	require.NoError(t, os.WriteFile(artifact, []byte("stitched"), 0644))
	job := registry.Insert(artifact, "")

	server := newDownloadServer(t, registry, true)
	resp, err := http.Get(server.URL + "/api/download/" + job.ID)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	second, err := http.Get(server.URL + "/api/download/" + job.ID)
	require.NoError(t, err)
	defer second.Body.Close()
	assert.Equal(t, http.StatusNotFound, second.StatusCode)
	assert.NoFileExists(t, artifact)
}
