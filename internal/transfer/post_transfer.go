package transfer

import "github.com/shipsocial/shipsocial-api/internal/models"

type PostGeneration struct {
	Platform models.Platform `json:"platform" validate:"required,platform"`
	PillarID string          `json:"pillarId"`
}

type Schedule struct {
	Platform models.Platform `json:"platform" validate:"omitempty,platform"`
}

type Export struct {
	IDs []string `json:"ids" validate:"omitempty,max=500"`
}

type ScheduleResponse struct {
	Post        *models.Post `json:"post"`
	ScheduledAt string       `json:"scheduledAt"`
	Window      string       `json:"window"`
	Nudged      bool         `json:"nudged"`
}

type PostList struct {
	Posts []*models.Post `json:"posts"`
	Count int            `json:"count"`
}
