package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/scheduler"
)

const testBrand = "brand-1"

type scheduleFixture struct {
	posts   *fakePosts
	windows *fakeWindows
	svc     *scheduleService
}

// base draw 30 lands on 10:00 in a 09:30 window, jitter draw 7 means no jitter.
func newScheduleFixture(t *testing.T, now time.Time, draws ...int) *scheduleFixture {
	t.Helper()
	if len(draws) == 0 {
		draws = []int{30, 7}
	}
	f := &scheduleFixture{posts: newFakePosts(), windows: newFakeWindows()}
	assigner := scheduler.NewAssigner(&scriptedRand{draws: draws}, fixedNow(now))
	f.svc = NewScheduleService(f.posts, f.windows, assigner, "UTC").(*scheduleService)
	f.svc.now = fixedNow(now)
	return f
}

func (f *scheduleFixture) draft(platform models.Platform) *models.Post {
	return f.posts.put(&models.Post{BrandID: testBrand, Platform: platform, Status: models.PostStatusDraft, Body: "body"})
}

func (f *scheduleFixture) window(platform models.Platform, start, end, tz string) {
	_ = f.windows.Upsert(context.Background(), nil, &models.Window{
		BrandID: testBrand, Platform: platform, Start: start, End: end, TimeZone: tz,
	})
}

func TestSchedulePostInsideStoredWindow(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) // 08:00 in Manila

	f := newScheduleFixture(t, now)
	f.window(models.PlatformLinkedIn, "09:30", "11:00", "Asia/Manila")
	post := f.draft(models.PlatformLinkedIn)

	res, err := f.svc.SchedulePost(context.Background(), testBrand, post.ID, "")
	require.NoError(t, err)

	want := time.Date(2026, 10, 17, 10, 0, 0, 0, manila)
	assert.True(t, res.ScheduledAt.Equal(want), "got %s", res.ScheduledAt)
	assert.Equal(t, "+08:00", res.ScheduledAt.Format("-07:00"))
	assert.False(t, res.Nudged)
	assert.Equal(t, models.PostStatusScheduled, res.Post.Status)

	stored := f.posts.get(post.ID)
	require.NotNil(t, stored.ScheduledAt)
	assert.Equal(t, models.PostStatusScheduled, stored.Status)
	assert.True(t, stored.ScheduledAt.Equal(want))
}

func TestSchedulePostStaysInsideWindow(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	for _, draws := range [][]int{{0, 0}, {90, 14}, {45, 3}, {89, 0}} {
		f := newScheduleFixture(t, now, draws...)
		f.window(models.PlatformX, "12:00", "13:30", "UTC")
		post := f.draft(models.PlatformX)

		res, err := f.svc.SchedulePost(context.Background(), testBrand, post.ID, models.PlatformX)
		require.NoError(t, err)

		lo := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
		hi := time.Date(2026, 10, 17, 13, 30, 0, 0, time.UTC)
		assert.False(t, res.ScheduledAt.Before(lo), "draws %v gave %s", draws, res.ScheduledAt)
		assert.False(t, res.ScheduledAt.After(hi), "draws %v gave %s", draws, res.ScheduledAt)
	}
}

func TestSchedulePostNudgesCollision(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now)
	f.window(models.PlatformLinkedIn, "09:30", "11:00", "UTC")
	first := f.draft(models.PlatformLinkedIn)
	second := f.draft(models.PlatformLinkedIn)

	res1, err := f.svc.SchedulePost(context.Background(), testBrand, first.ID, "")
	require.NoError(t, err)
	res2, err := f.svc.SchedulePost(context.Background(), testBrand, second.ID, "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC), res1.ScheduledAt)
	assert.Equal(t, time.Date(2026, 10, 17, 10, 7, 0, 0, time.UTC), res2.ScheduledAt)
	assert.True(t, res2.Nudged)
}

func TestReschedulingIgnoresOwnSlot(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now)
	post := f.draft(models.PlatformLinkedIn)

	first, err := f.svc.SchedulePost(context.Background(), testBrand, post.ID, "")
	require.NoError(t, err)
	again, err := f.svc.SchedulePost(context.Background(), testBrand, post.ID, "")
	require.NoError(t, err)

	assert.Equal(t, first.ScheduledAt, again.ScheduledAt)
	assert.False(t, again.Nudged)
}

func TestSchedulePostFallsBackToDefaultWindow(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now, 0, 0)
	f.window(models.PlatformFacebook, "bogus", "11:00", "UTC")

	for _, p := range []models.Platform{models.PlatformInstagram, models.PlatformFacebook} {
		post := f.draft(p)
		res, err := f.svc.SchedulePost(context.Background(), testBrand, post.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "09:30-11:00 UTC", res.Window.String())
	}
}

func TestSchedulePostRejections(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now)
	published := f.posts.put(&models.Post{BrandID: testBrand, Platform: models.PlatformX, Status: models.PostStatusPublished})
	draft := f.draft(models.PlatformX)

	_, err := f.svc.SchedulePost(context.Background(), testBrand, published.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.SchedulePost(context.Background(), testBrand, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.SchedulePost(context.Background(), "other-brand", draft.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.SchedulePost(context.Background(), testBrand, draft.ID, "myspace")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, models.PostStatusPublished, f.posts.get(published.ID).Status)
	assert.Equal(t, models.PostStatusDraft, f.posts.get(draft.ID).Status)
}

func TestUnscheduleRoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now)
	post := f.draft(models.PlatformLinkedIn)

	_, err := f.svc.UnschedulePost(context.Background(), testBrand, post.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.SchedulePost(context.Background(), testBrand, post.ID, "")
	require.NoError(t, err)

	got, err := f.svc.UnschedulePost(context.Background(), testBrand, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, got.Status)
	assert.Nil(t, got.ScheduledAt)

	stored := f.posts.get(post.ID)
	assert.Equal(t, models.PostStatusDraft, stored.Status)
	assert.Nil(t, stored.ScheduledAt)
}

func TestPublishPost(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now)
	draft := f.draft(models.PlatformLinkedIn)
	scheduled := f.draft(models.PlatformLinkedIn)

	res, err := f.svc.SchedulePost(context.Background(), testBrand, scheduled.ID, "")
	require.NoError(t, err)

	got, err := f.svc.PublishPost(context.Background(), testBrand, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	assert.Equal(t, now, *got.ScheduledAt)

	got, err = f.svc.PublishPost(context.Background(), testBrand, scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ScheduledAt, *got.ScheduledAt)

	_, err = f.svc.PublishPost(context.Background(), testBrand, scheduled.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.SchedulePost(context.Background(), testBrand, scheduled.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPublishIfDueDropsStaleTasks(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now)
	post := f.draft(models.PlatformLinkedIn)

	res, err := f.svc.SchedulePost(context.Background(), testBrand, post.ID, "")
	require.NoError(t, err)

	ok, err := f.svc.PublishIfDue(context.Background(), testBrand, post.ID, res.ScheduledAt.Add(7*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.PublishIfDue(context.Background(), testBrand, "missing", res.ScheduledAt)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.PublishIfDue(context.Background(), testBrand, post.ID, res.ScheduledAt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.PostStatusPublished, f.posts.get(post.ID).Status)

	ok, err = f.svc.PublishIfDue(context.Background(), testBrand, post.ID, res.ScheduledAt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublishOverdue(t *testing.T) {
	now := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now)
	due := f.draft(models.PlatformLinkedIn)
	_, err := f.svc.SchedulePost(context.Background(), testBrand, due.ID, "")
	require.NoError(t, err)
	f.draft(models.PlatformX)

	n, err := f.svc.PublishOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f.svc.now = fixedNow(now.Add(6 * time.Hour))
	n, err = f.svc.PublishOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.PostStatusPublished, f.posts.get(due.ID).Status)
}

func TestSchedulePostAfterWindowClosedStaysOnToday(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)
	f := newScheduleFixture(t, now)
	post := f.draft(models.PlatformLinkedIn)

	res, err := f.svc.SchedulePost(context.Background(), testBrand, post.ID, "")
	require.NoError(t, err)
	want := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	assert.True(t, res.ScheduledAt.Equal(want), "got %s", res.ScheduledAt)
	assert.True(t, res.ScheduledAt.Before(now))

	// the slot is already due, so the next sweep publishes it
	n, err := f.svc.PublishOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.PostStatusPublished, f.posts.get(post.ID).Status)
}
