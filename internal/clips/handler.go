package clips

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the clip pipeline over HTTP.
type Handler struct {
	orchestrator *Orchestrator
	logger       *zap.Logger
}

// NewHandler creates the /api/process handler.
func NewHandler(orchestrator *Orchestrator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{orchestrator: orchestrator, logger: logger}
}

// Process handles POST /api/process. The response is always 200 with a
// newline-delimited JSON body; success or failure is carried by the single
// terminal event, and the connection stays open until it is written.
func (h *Handler) Process(c *gin.Context) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	stream := NewStream(c.Writer)

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		stream.Error("invalid request body: expected {segments: [{url, start, end}]}")
		return
	}
	h.orchestrator.Process(c.Request.Context(), req.Segments, stream)
}
