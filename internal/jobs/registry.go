// Package jobs tracks completed clip artifacts and governs their lifetime.
package jobs

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipstitch/backend/internal/metrics"
)

// ErrNotFound is returned by Lookup for unknown or already-evicted ids.
var ErrNotFound = errors.New("job not found")

// Job is a completed, retrievable stitched artifact. Immutable after insert.
type Job struct {
	ID        string
	FinalPath string
	CreatedAt time.Time
	TempDir   string // scratch directory; empty once cleaned
}

// Registry is an in-memory job store. Jobs do not survive a restart.
type Registry struct {
	mu        sync.Mutex
	jobs      map[string]Job
	retention time.Duration
	logger    *zap.Logger
}

// NewRegistry creates a registry with the given retention window.
func NewRegistry(retention time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		jobs:      make(map[string]Job),
		retention: retention,
		logger:    logger,
	}
}

// Insert stores a new job under a fresh random id and returns it.
func (r *Registry) Insert(finalPath, tempDir string) Job {
	job := Job{
		ID:        uuid.New().String(),
		FinalPath: finalPath,
		CreatedAt: time.Now(),
		TempDir:   tempDir,
	}
	r.mu.Lock()
	r.jobs[job.ID] = job
	metrics.JobsRegistered.Set(float64(len(r.jobs)))
	r.mu.Unlock()
	r.logger.Info("job registered", zap.String("job_id", job.ID), zap.String("artifact", finalPath))
	return job
}

// Lookup returns the job for id, or ErrNotFound.
func (r *Registry) Lookup(id string) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// Remove deletes the job entry and its backing files. Used by the
// delete-after-download policy; deletion errors are swallowed.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	job, ok := r.jobs[id]
	if ok {
		delete(r.jobs, id)
		metrics.JobsRegistered.Set(float64(len(r.jobs)))
	}
	r.mu.Unlock()
	if ok {
		r.deleteFiles(job)
		r.logger.Info("job removed after download", zap.String("job_id", id))
	}
}

// EvictExpired deletes every job older than the retention window. Backing
// files are removed best-effort; the registry entry goes away regardless.
func (r *Registry) EvictExpired(now time.Time) {
	r.mu.Lock()
	var expired []Job
	for id, job := range r.jobs {
		if now.Sub(job.CreatedAt) > r.retention {
			expired = append(expired, job)
			delete(r.jobs, id)
		}
	}
	metrics.JobsRegistered.Set(float64(len(r.jobs)))
	r.mu.Unlock()

	for _, job := range expired {
		r.deleteFiles(job)
		r.logger.Info("job evicted", zap.String("job_id", job.ID), zap.Time("created_at", job.CreatedAt))
	}
}

func (r *Registry) deleteFiles(job Job) {
	if err := os.Remove(job.FinalPath); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("artifact delete failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	if job.TempDir != "" {
		if err := os.RemoveAll(job.TempDir); err != nil {
			r.logger.Warn("temp dir delete failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}
