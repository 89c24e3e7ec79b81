package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/repository"
	"github.com/shipsocial/shipsocial-api/internal/scheduler"
)

const dueBatchSize = 100

type ScheduleResult struct {
	Post        *models.Post
	ScheduledAt time.Time // in the window's zone
	Window      scheduler.Window
	Nudged      bool
}

type ScheduleService interface {
	SchedulePost(ctx context.Context, brandID, postID string, platform models.Platform) (*ScheduleResult, error)
	UnschedulePost(ctx context.Context, brandID, postID string) (*models.Post, error)
	PublishPost(ctx context.Context, brandID, postID string) (*models.Post, error)
	PublishIfDue(ctx context.Context, brandID, postID string, scheduledAt time.Time) (bool, error)
	PublishOverdue(ctx context.Context) (int, error)
}

type scheduleService struct {
	pr        repository.PostRepository
	wr        repository.WindowRepository
	assigner  *scheduler.Assigner
	defaultTZ string
	now       func() time.Time
	locks     *keyedMutex
}

func NewScheduleService(
	pr repository.PostRepository,
	wr repository.WindowRepository,
	assigner *scheduler.Assigner,
	defaultTZ string) ScheduleService {
	return &scheduleService{
		pr:        pr,
		wr:        wr,
		assigner:  assigner,
		defaultTZ: defaultTZ,
		now:       time.Now,
		locks:     newKeyedMutex(),
	}
}

// SchedulePost assigns the post a time inside today's window for platform
// (the post's own platform when empty) and marks it scheduled. The read of
// existing slots and the write run under a per-brand lock held by this
// process only.
func (s *scheduleService) SchedulePost(ctx context.Context, brandID, postID string, platform models.Platform) (*ScheduleResult, error) {
	unlock := s.locks.Lock(brandID)
	defer unlock()

	post, err := s.getPost(ctx, brandID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublished {
		return nil, fmt.Errorf("%w: post %s is already published", ErrInvalidState, postID)
	}

	if platform == "" {
		platform = post.Platform
	}
	if !platform.Valid() {
		return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, platform)
	}

	window, err := s.resolveWindow(ctx, brandID, platform)
	if err != nil {
		return nil, err
	}

	proposed := s.assigner.Assign(window)

	existing, err := s.pr.ScheduledTimes(ctx, brandID, post.ID)
	if err != nil {
		return nil, fmt.Errorf("load scheduled posts: %w", err)
	}
	scheduledAt := scheduler.Avoid(proposed, existing, window)

	if err := s.pr.UpdateSchedule(ctx, post.ID, models.PostStatusScheduled, &scheduledAt); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	post.Status = models.PostStatusScheduled
	post.ScheduledAt = &scheduledAt

	nudged := !scheduledAt.Equal(proposed)
	slog.Info("post scheduled", "brand_id", brandID, "post_id", post.ID, "platform", platform,
		"window", window.String(), "scheduled_at", scheduledAt.Format(time.RFC3339), "nudged", nudged)

	return &ScheduleResult{Post: post, ScheduledAt: scheduledAt, Window: window, Nudged: nudged}, nil
}

// resolveWindow prefers the brand's stored window and falls back to the
// built-in default when none exists or the stored one no longer parses.
func (s *scheduleService) resolveWindow(ctx context.Context, brandID string, platform models.Platform) (scheduler.Window, error) {
	stored, exists, err := s.wr.GetByPlatform(ctx, brandID, platform)
	if err != nil {
		return scheduler.Window{}, fmt.Errorf("load window: %w", err)
	}
	if !exists {
		return scheduler.DefaultWindow(s.defaultTZ), nil
	}

	window, err := scheduler.NewWindow(stored.Start, stored.End, stored.TimeZone)
	if err != nil {
		slog.Warn("stored window unusable, using default", "brand_id", brandID, "platform", platform, "error", err)
		return scheduler.DefaultWindow(s.defaultTZ), nil
	}
	return window, nil
}

func (s *scheduleService) UnschedulePost(ctx context.Context, brandID, postID string) (*models.Post, error) {
	unlock := s.locks.Lock(brandID)
	defer unlock()

	post, err := s.getPost(ctx, brandID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusScheduled {
		return nil, fmt.Errorf("%w: only scheduled posts can be unscheduled, post %s is %s", ErrInvalidState, postID, post.Status)
	}

	if err := s.pr.UpdateSchedule(ctx, post.ID, models.PostStatusDraft, nil); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	post.Status = models.PostStatusDraft
	post.ScheduledAt = nil
	return post, nil
}

// PublishPost marks a draft or scheduled post published, keeping its
// scheduled time or stamping the current time.
func (s *scheduleService) PublishPost(ctx context.Context, brandID, postID string) (*models.Post, error) {
	unlock := s.locks.Lock(brandID)
	defer unlock()

	post, err := s.getPost(ctx, brandID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublished {
		return nil, fmt.Errorf("%w: post %s is already published", ErrInvalidState, postID)
	}
	return s.publish(ctx, post)
}

// PublishIfDue publishes the post only while it is still scheduled for the
// given minute. Anything else means the post moved on and reports false.
func (s *scheduleService) PublishIfDue(ctx context.Context, brandID, postID string, scheduledAt time.Time) (bool, error) {
	unlock := s.locks.Lock(brandID)
	defer unlock()

	post, err := s.pr.GetByID(ctx, brandID, postID)
	if err != nil {
		return false, fmt.Errorf("load post: %w", err)
	}
	if post == nil || post.Status != models.PostStatusScheduled || post.ScheduledAt == nil {
		return false, nil
	}
	if !post.ScheduledAt.Truncate(time.Minute).Equal(scheduledAt.Truncate(time.Minute)) {
		return false, nil
	}

	if _, err := s.publish(ctx, post); err != nil {
		return false, err
	}
	return true, nil
}

// PublishOverdue publishes scheduled posts whose time has passed, across all brands.
func (s *scheduleService) PublishOverdue(ctx context.Context) (int, error) {
	due, err := s.pr.ListDue(ctx, s.now(), dueBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list due posts: %w", err)
	}

	published := 0
	for _, post := range due {
		ok, err := s.PublishIfDue(ctx, post.BrandID, post.ID, *post.ScheduledAt)
		if err != nil {
			slog.Error("publish overdue post", "post_id", post.ID, "error", err)
			continue
		}
		if ok {
			published++
		}
	}
	return published, nil
}

func (s *scheduleService) publish(ctx context.Context, post *models.Post) (*models.Post, error) {
	at := s.now()
	if post.ScheduledAt != nil {
		at = *post.ScheduledAt
	}
	if err := s.pr.UpdateSchedule(ctx, post.ID, models.PostStatusPublished, &at); err != nil {
		return nil, fmt.Errorf("save publish: %w", err)
	}
	post.Status = models.PostStatusPublished
	post.ScheduledAt = &at
	slog.Info("post published", "brand_id", post.BrandID, "post_id", post.ID)
	return post, nil
}

func (s *scheduleService) getPost(ctx context.Context, brandID, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, fmt.Errorf("%w: post id is required", ErrInvalidInput)
	}
	post, err := s.pr.GetByID(ctx, brandID, postID)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	return post, nil
}
