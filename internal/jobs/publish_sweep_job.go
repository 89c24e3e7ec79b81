package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shipsocial/shipsocial-api/internal/service"
)

const sweepTimeout = time.Minute

// PublishSweepJob publishes scheduled posts whose time has passed. It covers
// posts whose queued task was lost or never enqueued.
type PublishSweepJob struct {
	ss service.ScheduleService

	mu sync.Mutex
}

func NewPublishSweepJob(ss service.ScheduleService) *PublishSweepJob {
	return &PublishSweepJob{
		ss: ss,
	}
}

// PublishOverdue runs one sweep. Overlapping runs are skipped.
func (j *PublishSweepJob) PublishOverdue() {
	if !j.mu.TryLock() {
		slog.Info("publish sweep still running, skipping")
		return
	}
	defer j.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := j.ss.PublishOverdue(ctx)
	if err != nil {
		slog.Error("publish sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("publish sweep", "published", n)
	}
}
