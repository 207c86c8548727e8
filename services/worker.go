package services

import (
	"context"
	"time"

	"github.com/yuvalsigall-cpu/menu-cleaner/repository"
	"go.uber.org/zap"
)

// workerPollInterval bounds each blocking dequeue so cancellation is noticed.
const workerPollInterval = 2 * time.Second

// StartCleanWorker starts a background worker that consumes job IDs from the
// queue and processes the stored uploads with svc. It stops when ctx is done.
func StartCleanWorker(ctx context.Context, jobs repository.JobStore, svc *CleanerService) {
	if jobs == nil || svc == nil {
		zap.L().Warn("catalog clean worker not started: missing dependencies")
		return
	}

	go func() {
		zap.L().Info("catalog clean worker started", zap.String("queue", repository.QueueKey))
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("catalog clean worker stopping")
				return
			default:
			}

			jobID, err := jobs.Dequeue(ctx, workerPollInterval)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Error("redis BLPop failed", zap.Error(err))
				time.Sleep(500 * time.Millisecond)
				continue
			}
			if jobID == "" {
				continue
			}

			if err := svc.ProcessJob(ctx, jobID); err != nil {
				zap.L().Error("catalog clean job processing failed", zap.String("job", jobID), zap.Error(err))
				continue
			}
			zap.L().Info("catalog clean job done", zap.String("job", jobID))
		}
	}()
}
