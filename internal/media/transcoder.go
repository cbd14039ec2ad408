package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/clipstitch/backend/internal/execx"
)

// ManifestName is the concat manifest filename inside a job's scratch dir.
const ManifestName = "list.txt"

// Transcoder cuts and concatenates media files using the ffmpeg binary.
// Both modes stream-copy (no re-encode) and force overwrite of the
// destination.
type Transcoder struct {
	bin    string
	runner *execx.Runner
	logger *zap.Logger
}

// NewTranscoder creates a transcoder around the given ffmpeg binary.
func NewTranscoder(bin string, runner *execx.Runner, logger *zap.Logger) *Transcoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcoder{bin: bin, runner: runner, logger: logger}
}

// Cut writes the [startSec, startSec+durSec) window of locator to dest.
func (t *Transcoder) Cut(ctx context.Context, locator string, startSec, durSec int, dest string, sink execx.LineSink) error {
	args := []string{
		"-ss", strconv.Itoa(startSec),
		"-i", locator,
		"-t", strconv.Itoa(durSec),
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"-y",
		dest,
	}
	if _, err := t.runner.Run(ctx, t.bin, args, sink); err != nil {
		return err
	}
	t.logger.Debug("segment cut", zap.String("dest", dest), zap.Int("start", startSec), zap.Int("duration", durSec))
	return nil
}

// Concat merges the files listed in manifestPath into dest in manifest order.
func (t *Transcoder) Concat(ctx context.Context, manifestPath, dest string, sink execx.LineSink) error {
	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-c", "copy",
		"-y",
		dest,
	}
	if _, err := t.runner.Run(ctx, t.bin, args, sink); err != nil {
		return err
	}
	t.logger.Debug("segments concatenated", zap.String("dest", dest))
	return nil
}

// WriteConcatManifest writes the ffmpeg concat demuxer manifest for paths
// into dir and returns its path. Single quotes inside a path are escaped so
// the manifest format cannot be corrupted.
func WriteConcatManifest(dir string, paths []string) (string, error) {
	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(p, "'", `'\''`))
	}
	manifestPath := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(manifestPath, []byte(b.String()), 0600); err != nil {
		return "", fmt.Errorf("write concat manifest: %w", err)
	}
	return manifestPath, nil
}
