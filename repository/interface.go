package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yuvalsigall-cpu/menu-cleaner/models"
)

// ErrNotFound is returned when a job or artifact does not exist.
var ErrNotFound = errors.New("record not found")

// JobStore keeps async job metadata and the job queue.
type JobStore interface {
	Save(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id string) (*models.Job, error)
	Delete(ctx context.Context, id string) error
	Enqueue(ctx context.Context, id string) error
	// Dequeue blocks up to timeout for the next job id. It returns "" when
	// the wait timed out.
	Dequeue(ctx context.Context, timeout time.Duration) (string, error)
}

// ArtifactStore keeps uploads and rendered reports.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	PresignGet(ctx context.Context, key, downloadName string, ttl time.Duration) (string, error)
}

// RunRepo records the summaries of completed runs.
type RunRepo interface {
	Create(ctx context.Context, run *models.Run) error
	Recent(ctx context.Context, limit int) ([]models.Run, error)
}
