package jobs

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clipstitch/backend/pkg/response"
)

// Handler serves completed artifacts for download.
type Handler struct {
	registry            *Registry
	deleteAfterDownload bool
	logger              *zap.Logger
}

// NewHandler creates a download handler.
func NewHandler(registry *Registry, deleteAfterDownload bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, deleteAfterDownload: deleteAfterDownload, logger: logger}
}

// Download handles GET /api/download/:id. Unknown or expired ids get a 404
// JSON body; a vanished artifact file is treated the same as an expired id.
func (h *Handler) Download(c *gin.Context) {
	id := c.Param("id")
	job, err := h.registry.Lookup(id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "unknown or expired job id")
		return
	}
	if _, err := os.Stat(job.FinalPath); err != nil {
		h.logger.Warn("artifact missing for registered job", zap.String("job_id", id), zap.Error(err))
		response.NotFound(c, "unknown or expired job id")
		return
	}

	c.FileAttachment(job.FinalPath, filepath.Base(job.FinalPath))

	if h.deleteAfterDownload && c.Writer.Status() == 200 {
		h.registry.Remove(id)
	}
}
