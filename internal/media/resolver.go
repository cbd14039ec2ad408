// Package media wraps the external fetch-resolver (yt-dlp) and transcoder
// (ffmpeg) binaries behind narrow, testable adapters.
package media

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clipstitch/backend/internal/execx"
)

// Resolver resolves a caller-supplied media reference to a directly
// fetchable locator using the yt-dlp binary.
type Resolver struct {
	bin    string
	runner *execx.Runner
	logger *zap.Logger
}

// NewResolver creates a resolver around the given yt-dlp binary.
func NewResolver(bin string, runner *execx.Runner, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{bin: bin, runner: runner, logger: logger}
}

// Resolve returns a directly fetchable media locator for url.
// yt-dlp may print one URL per stream; the first line wins.
func (r *Resolver) Resolve(ctx context.Context, url string, sink execx.LineSink) (string, error) {
	out, err := r.runner.Run(ctx, r.bin, []string{"-f", "b", "--get-url", "--no-warnings", url}, sink)
	if err != nil {
		return "", err
	}
	locator, _, _ := strings.Cut(out, "\n")
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", fmt.Errorf("resolver returned no locator for %s", url)
	}
	r.logger.Debug("resolved locator", zap.String("url", url))
	return locator, nil
}
