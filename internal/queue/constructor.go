package queue

import (
	"time"

	"github.com/shipsocial/shipsocial-api/internal/service"
)

type Queue struct {
	ss service.ScheduleService
}

func NewQueue(ss service.ScheduleService) *Queue {
	return &Queue{
		ss: ss,
	}
}

const TaskTypePublishPost = "post:publish"

type PublishPostPayload struct {
	PostID      string    `json:"post_id"`
	BrandID     string    `json:"brand_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
