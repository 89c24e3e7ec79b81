package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Register mounts the queue's task handlers on mux.
func (j *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypePublishPost, j.HandlePublishPostTask)
}

// HandlePublishPostTask publishes the post if it is still scheduled for the
// payload's time. Stale tasks left behind by unschedule or reschedule are
// acknowledged and dropped.
func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	published, err := j.ss.PublishIfDue(ctx, payload.BrandID, payload.PostID, payload.ScheduledAt)
	if err != nil {
		return err
	}
	if !published {
		slog.Info("stale publish task dropped", "post_id", payload.PostID, "scheduled_at", payload.ScheduledAt)
	}
	return nil
}
