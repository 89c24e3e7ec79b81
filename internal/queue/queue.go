package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const maxPublishRetries = 5

// Enqueuer is the part of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueuePublish schedules the publish task for payload.ScheduledAt. The task
// id is derived from post and time, so scheduling the same slot twice is a no-op.
func EnqueuePublish(ctx context.Context, client Enqueuer, payload PublishPostPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	_, err = client.EnqueueContext(ctx, task,
		asynq.ProcessAt(payload.ScheduledAt),
		asynq.TaskID(publishTaskID(payload)),
		asynq.MaxRetry(maxPublishRetries),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}

	slog.Info("publish task scheduled", "post_id", payload.PostID, "process_at", payload.ScheduledAt)
	return nil
}

func publishTaskID(p PublishPostPayload) string {
	return fmt.Sprintf("publish:%s:%d", p.PostID, p.ScheduledAt.Unix())
}
