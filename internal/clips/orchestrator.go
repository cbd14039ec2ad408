package clips

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipstitch/backend/internal/jobs"
	"github.com/clipstitch/backend/internal/media"
	"github.com/clipstitch/backend/internal/metrics"
	"github.com/clipstitch/backend/internal/timespec"
)

// Orchestrator drives one clip request end to end: validate, fetch and cut
// each segment sequentially, stitch, publish the artifact, register the job.
type Orchestrator struct {
	resolver   *media.Resolver
	transcoder *media.Transcoder
	registry   *jobs.Registry
	outputDir  string
	tempBase   string // base for per-request scratch dirs; empty = os.TempDir()
	logger     *zap.Logger
}

// NewOrchestrator creates an orchestrator writing artifacts to outputDir.
func NewOrchestrator(resolver *media.Resolver, transcoder *media.Transcoder, registry *jobs.Registry, outputDir, tempBase string, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		resolver:   resolver,
		transcoder: transcoder,
		registry:   registry,
		outputDir:  outputDir,
		tempBase:   tempBase,
		logger:     logger,
	}
}

// Process handles one request, emitting progress on stream until exactly
// one terminal event. Each request gets its own scratch directory; it is
// removed on every failure path and, after the artifact copy, on success.
// ctx is the request context, so a client disconnect terminates in-flight
// tool processes.
func (o *Orchestrator) Process(ctx context.Context, reqs []SegmentRequest, stream *Stream) {
	started := time.Now()

	stream.Status(StageValidating, fmt.Sprintf("Validating %d segment(s)", len(reqs)))
	segments, err := ParseSegments(reqs)
	if err != nil {
		stream.Error(err.Error())
		metrics.JobsTotal.WithLabelValues("failed").Inc()
		return
	}

	tempDir, err := os.MkdirTemp(o.tempBase, "clipjob-")
	if err != nil {
		stream.Error(fmt.Sprintf("create scratch directory: %v", err))
		metrics.JobsTotal.WithLabelValues("failed").Inc()
		return
	}
	o.logger.Info("job started", zap.Int("segments", len(segments)), zap.String("temp_dir", tempDir))

	fail := func(err error) {
		stream.Error(err.Error())
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			o.logger.Warn("scratch cleanup failed", zap.String("temp_dir", tempDir), zap.Error(rmErr))
		}
		metrics.JobsTotal.WithLabelValues("failed").Inc()
		metrics.JobDuration.Observe(time.Since(started).Seconds())
		o.logger.Warn("job failed", zap.String("temp_dir", tempDir), zap.Error(err))
	}

	sink := func(line string, stderr bool) {
		channel := "stdout"
		if stderr {
			channel = "stderr"
		}
		stream.Log(channel, line)
	}

	// Segments run strictly one at a time in declared order.
	clipPaths := make([]string, 0, len(segments))
	for i, seg := range segments {
		n := i + 1
		stream.Status(StageResolving, fmt.Sprintf("Resolving source for segment %d of %d", n, len(segments)))
		locator, err := o.resolver.Resolve(ctx, seg.URL, sink)
		if err != nil {
			metrics.ToolRuns.WithLabelValues("resolver", "failure").Inc()
			fail(fmt.Errorf("segment %d: %w", n, err))
			return
		}
		metrics.ToolRuns.WithLabelValues("resolver", "success").Inc()

		dest := filepath.Join(tempDir, fmt.Sprintf("segment_%d.mp4", i))
		stream.Status(StageDownloading, fmt.Sprintf("Downloading segment %d of %d", n, len(segments)))
		if err := o.transcoder.Cut(ctx, locator, seg.StartSec, seg.EndSec-seg.StartSec, dest, sink); err != nil {
			metrics.ToolRuns.WithLabelValues("transcoder", "failure").Inc()
			fail(fmt.Errorf("segment %d: %w", n, err))
			return
		}
		metrics.ToolRuns.WithLabelValues("transcoder", "success").Inc()
		metrics.SegmentsProcessed.Inc()
		stream.Status(StageDownloaded, fmt.Sprintf("Segment %d ready (%s - %s)", n,
			timespec.Format(seg.StartSec), timespec.Format(seg.EndSec)))
		clipPaths = append(clipPaths, dest)
	}

	stream.Status(StageStitching, fmt.Sprintf("Stitching %d segment(s)", len(clipPaths)))
	manifestPath, err := media.WriteConcatManifest(tempDir, clipPaths)
	if err != nil {
		fail(err)
		return
	}
	merged := filepath.Join(tempDir, "merged.mp4")
	if err := o.transcoder.Concat(ctx, manifestPath, merged, sink); err != nil {
		metrics.ToolRuns.WithLabelValues("transcoder", "failure").Inc()
		fail(err)
		return
	}
	metrics.ToolRuns.WithLabelValues("transcoder", "success").Inc()

	finalPath := filepath.Join(o.outputDir, uuid.New().String()+".mp4")
	if err := copyFile(merged, finalPath); err != nil {
		fail(err)
		return
	}

	// Copy made; the scratch directory is no longer needed.
	if err := os.RemoveAll(tempDir); err != nil {
		o.logger.Warn("scratch cleanup failed", zap.String("temp_dir", tempDir), zap.Error(err))
	}

	job := o.registry.Insert(finalPath, "")
	stream.Done(job.ID, "/api/download/"+job.ID)
	metrics.JobsTotal.WithLabelValues("completed").Inc()
	metrics.JobDuration.Observe(time.Since(started).Seconds())
	o.logger.Info("job completed", zap.String("job_id", job.ID),
		zap.Int("segments", len(segments)), zap.Duration("took", time.Since(started)))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open merged output: %w", err)
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy artifact: %w", err)
	}
	return out.Close()
}
