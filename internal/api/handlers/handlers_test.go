package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/quota"
	"github.com/shipsocial/shipsocial-api/internal/scheduler"
	"github.com/shipsocial/shipsocial-api/internal/service"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
)

type stubSchedule struct {
	service.ScheduleService
	res *service.ScheduleResult
	err error
}

func (s *stubSchedule) SchedulePost(ctx context.Context, brandID, postID string, platform models.Platform) (*service.ScheduleResult, error) {
	return s.res, s.err
}

func (s *stubSchedule) UnschedulePost(ctx context.Context, brandID, postID string) (*models.Post, error) {
	return nil, s.err
}

type stubPosts struct {
	service.PostService
	calls int
	err   error
}

func (s *stubPosts) Generate(ctx context.Context, brandID string, in *transfer.PostGeneration) (*models.Post, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Post{ID: "p1", BrandID: brandID, Platform: in.Platform, Status: models.PostStatusDraft}, nil
}

type stubWindows struct {
	service.WindowService
	calls int
}

func (s *stubWindows) Update(ctx context.Context, brandID string, in *transfer.WindowsUpdate) (*transfer.WindowsView, error) {
	s.calls++
	return &transfer.WindowsView{TimeZone: in.TimeZone}, nil
}

type recordingTasks struct {
	payloads []string
}

func (r *recordingTasks) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	r.payloads = append(r.payloads, string(task.Payload()))
	return &asynq.TaskInfo{}, nil
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("brand_id", "brand-1")
		return c.Next()
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestSchedulePostResponse(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	at := time.Date(2026, 10, 17, 10, 7, 0, 0, manila)
	window, err := scheduler.NewWindow("09:30", "11:00", "Asia/Manila")
	require.NoError(t, err)

	ss := &stubSchedule{res: &service.ScheduleResult{
		Post:        &models.Post{ID: "p1", Status: models.PostStatusScheduled, ScheduledAt: &at},
		ScheduledAt: at,
		Window:      window,
		Nudged:      true,
	}}
	tasks := &recordingTasks{}
	h := NewScheduleHandler(ss, tasks)

	app := newApp()
	app.Post("/posts/:id/schedule", h.SchedulePost)

	status, body := send(t, app, http.MethodPost, "/posts/p1/schedule", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "2026-10-17T10:07:00+08:00", body["scheduledAt"])
	assert.Equal(t, "09:30-11:00 Asia/Manila", body["window"])
	assert.Equal(t, true, body["nudged"])

	require.Len(t, tasks.payloads, 1)
	assert.Contains(t, tasks.payloads[0], `"post_id":"p1"`)
	assert.Contains(t, tasks.payloads[0], `"brand_id":"brand-1"`)

	status, _ = send(t, app, http.MethodPost, "/posts/p1/schedule", `{"platform":"myspace"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Len(t, tasks.payloads, 1)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: post p1", service.ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("%w: post p1 is already published", service.ErrInvalidState), fiber.StatusConflict},
		{fmt.Errorf("%w: bad", service.ErrInvalidWindow), fiber.StatusBadRequest},
		{fmt.Errorf("%w: bad", quota.ErrInvalidAmount), fiber.StatusBadRequest},
		{fmt.Errorf("connection refused"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := NewScheduleHandler(&stubSchedule{err: tc.err}, nil)
		app := newApp()
		app.Post("/posts/:id/unschedule", h.UnschedulePost)

		status, body := send(t, app, http.MethodPost, "/posts/p1/unschedule", "")
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.NotEmpty(t, body["error"])
	}
}

func TestGenerateQuotaExhausted(t *testing.T) {
	resets := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	posts := &stubPosts{err: &service.QuotaError{Result: quota.Result{Daily: 20, Used: 20, Left: 0, ResetsAt: resets, RetryIn: "3h 5m"}}}
	h := NewPostHandler(posts)

	app := newApp()
	app.Post("/posts/generate", h.GeneratePost)

	status, body := send(t, app, http.MethodPost, "/posts/generate", `{"platform":"linkedin"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "3h 5m", body["retryIn"])
	assert.Equal(t, float64(0), body["left"])
	assert.Equal(t, "2026-10-18T00:00:00Z", body["resetsAt"])

	status, _ = send(t, app, http.MethodPost, "/posts/generate", `{"platform":"tiktok"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, 1, posts.calls)

	posts.err = nil
	status, body = send(t, app, http.MethodPost, "/posts/generate", `{"platform":"x"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "x", body["platform"])
}

func TestUpdateWindowsValidation(t *testing.T) {
	windows := &stubWindows{}
	h := NewWindowHandler(windows)

	app := newApp()
	app.Patch("/windows", h.UpdateWindows)

	bad := []string{
		`{"tz":"UTC","windows":{"linkedin":{"start":"9:30","end":"11:00"}}}`,
		`{"tz":"Mars/Olympus","windows":{"linkedin":{"start":"09:30","end":"11:00"}}}`,
		`{"tz":"UTC","windows":{"myspace":{"start":"09:30","end":"11:00"}}}`,
		`{"tz":"UTC","windows":{}}`,
		`not json`,
	}
	for _, b := range bad {
		status, body := send(t, app, http.MethodPatch, "/windows", b)
		assert.Equal(t, fiber.StatusBadRequest, status, b)
		assert.NotEmpty(t, body["error"], b)
	}
	assert.Equal(t, 0, windows.calls)

	status, body := send(t, app, http.MethodPatch, "/windows",
		`{"tz":"+08:00","windows":{"linkedin":{"start":"09:30","end":"11:00"}}}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "+08:00", body["tz"])
	assert.Equal(t, 1, windows.calls)
}
