package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

type fakePosts struct {
	mu    sync.Mutex
	seq   int
	posts map[string]*models.Post
	fail  error
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: make(map[string]*models.Post)}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		c.ScheduledAt = &t
	}
	c.Hashtags = append([]string(nil), p.Hashtags...)
	return &c
}

func (f *fakePosts) put(p *models.Post) *models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		f.seq++
		p.ID = fmt.Sprintf("post-%d", f.seq)
	}
	f.posts[p.ID] = clonePost(p)
	return p
}

func (f *fakePosts) get(id string) *models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		return clonePost(p)
	}
	return nil
}

func (f *fakePosts) Create(ctx context.Context, post *models.Post) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	return f.put(clonePost(post)).ID, nil
}

func (f *fakePosts) GetByID(ctx context.Context, brandID, id string) (*models.Post, error) {
	p := f.get(id)
	if p == nil || p.BrandID != brandID {
		return nil, nil
	}
	return p, nil
}

func (f *fakePosts) List(ctx context.Context, brandID string, filter models.PostFilter) ([]*models.Post, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wanted := make(map[string]bool, len(filter.IDs))
	for _, id := range filter.IDs {
		wanted[id] = true
	}
	var out []*models.Post
	for _, p := range f.posts {
		if p.BrandID != brandID || (filter.Status != "" && p.Status != filter.Status) {
			continue
		}
		if len(wanted) > 0 && !wanted[p.ID] {
			continue
		}
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt != nil && out[j].ScheduledAt != nil {
			return out[i].ScheduledAt.Before(*out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	count := len(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, count, nil
}

func (f *fakePosts) ScheduledTimes(ctx context.Context, brandID, excludeID string) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []time.Time
	for _, p := range f.posts {
		if p.BrandID == brandID && p.ID != excludeID && p.Status == models.PostStatusScheduled && p.ScheduledAt != nil {
			out = append(out, *p.ScheduledAt)
		}
	}
	return out, nil
}

func (f *fakePosts) ListDue(ctx context.Context, before time.Time, limit int) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Post
	for _, p := range f.posts {
		if p.Status == models.PostStatusScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(before) {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (f *fakePosts) UpdateSchedule(ctx context.Context, id string, status models.PostStatus, scheduledAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Status = status
	p.ScheduledAt = nil
	if scheduledAt != nil {
		t := *scheduledAt
		p.ScheduledAt = &t
	}
	return nil
}

func (f *fakePosts) UpdateContent(ctx context.Context, post *models.Post) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[post.ID]
	if !ok {
		return sql.ErrNoRows
	}
	p.Title, p.Body, p.AltText, p.WhyNote, p.Framework = post.Title, post.Body, post.AltText, post.WhyNote, post.Framework
	p.Hashtags = append([]string(nil), post.Hashtags...)
	return nil
}

func (f *fakePosts) UpdateAsset(ctx context.Context, id, assetURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		p.AssetURL = assetURL
	}
	return nil
}

func (f *fakePosts) CountByStatus(ctx context.Context, brandID string, publishedSince time.Time) (*models.PostStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.PostStats
	for _, p := range f.posts {
		if p.BrandID != brandID {
			continue
		}
		switch p.Status {
		case models.PostStatusDraft:
			stats.Drafts++
		case models.PostStatusScheduled:
			stats.Scheduled++
		case models.PostStatusPublished:
			if p.ScheduledAt != nil && !p.ScheduledAt.Before(publishedSince) {
				stats.Published7d++
			}
		}
	}
	return &stats, nil
}

func (f *fakePosts) Remove(ctx context.Context, brandID, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok || p.BrandID != brandID {
		return false, nil
	}
	delete(f.posts, id)
	return true, nil
}

func (f *fakePosts) RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.posts {
		if p.BrandID == brandID {
			delete(f.posts, id)
		}
	}
	return nil
}

type fakeWindows struct {
	mu      sync.Mutex
	windows map[string]map[models.Platform]*models.Window
}

func newFakeWindows() *fakeWindows {
	return &fakeWindows{windows: make(map[string]map[models.Platform]*models.Window)}
}

func (f *fakeWindows) ListByBrand(ctx context.Context, brandID string) ([]*models.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Window
	for _, p := range models.Platforms {
		if w, ok := f.windows[brandID][p]; ok {
			c := *w
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeWindows) GetByPlatform(ctx context.Context, brandID string, platform models.Platform) (*models.Window, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[brandID][platform]
	if !ok {
		return nil, false, nil
	}
	c := *w
	return &c, true, nil
}

func (f *fakeWindows) Upsert(ctx context.Context, tx *sql.Tx, w *models.Window) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.windows[w.BrandID] == nil {
		f.windows[w.BrandID] = make(map[models.Platform]*models.Window)
	}
	c := *w
	f.windows[w.BrandID][w.Platform] = &c
	return nil
}

func (f *fakeWindows) CreateIfMissing(ctx context.Context, tx *sql.Tx, w *models.Window) error {
	if _, ok, _ := f.GetByPlatform(ctx, w.BrandID, w.Platform); ok {
		return nil
	}
	return f.Upsert(ctx, tx, w)
}

func (f *fakeWindows) Count(ctx context.Context, brandID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.windows[brandID]), nil
}

func (f *fakeWindows) RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.windows, brandID)
	return nil
}

type fakeBrands struct {
	mu     sync.Mutex
	seq    int
	brands map[string]*models.Brand
}

func newFakeBrands(brands ...*models.Brand) *fakeBrands {
	f := &fakeBrands{brands: make(map[string]*models.Brand)}
	for _, b := range brands {
		c := *b
		f.brands[b.ID] = &c
	}
	return f
}

func (f *fakeBrands) Create(ctx context.Context, tx *sql.Tx, brand *models.Brand) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c := *brand
	c.ID = fmt.Sprintf("brand-%d", f.seq)
	f.brands[c.ID] = &c
	return c.ID, nil
}

func (f *fakeBrands) GetByID(ctx context.Context, id string) (*models.Brand, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.brands[id]
	if !ok {
		return nil, false, nil
	}
	c := *b
	return &c, true, nil
}

func (f *fakeBrands) Update(ctx context.Context, tx *sql.Tx, brand *models.Brand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.brands[brand.ID]; !ok {
		return sql.ErrNoRows
	}
	c := *brand
	f.brands[brand.ID] = &c
	return nil
}

type fakePillars struct {
	mu      sync.Mutex
	seq     int
	pillars []*models.Pillar
}

func (f *fakePillars) Create(ctx context.Context, tx *sql.Tx, pillar *models.Pillar) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c := *pillar
	c.ID = fmt.Sprintf("pillar-%d", f.seq)
	f.pillars = append(f.pillars, &c)
	return c.ID, nil
}

func (f *fakePillars) GetByID(ctx context.Context, brandID, id string) (*models.Pillar, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pillars {
		if p.BrandID == brandID && p.ID == id {
			c := *p
			return &c, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakePillars) GetByName(ctx context.Context, brandID, name string) (*models.Pillar, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pillars {
		if p.BrandID == brandID && strings.EqualFold(p.Name, name) {
			c := *p
			return &c, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakePillars) ListByBrand(ctx context.Context, brandID string) ([]*models.Pillar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Pillar
	for _, p := range f.pillars {
		if p.BrandID == brandID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakePillars) Remove(ctx context.Context, brandID, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.pillars {
		if p.BrandID == brandID && p.ID == id {
			f.pillars = append(f.pillars[:i], f.pillars[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePillars) RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.pillars[:0]
	for _, p := range f.pillars {
		if p.BrandID != brandID {
			kept = append(kept, p)
		}
	}
	f.pillars = kept
	return nil
}

type fakeKeys struct {
	mu   sync.Mutex
	seq  int64
	keys []*models.ApiKey
}

func (f *fakeKeys) GetByKey(ctx context.Context, apiKey string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.keys {
		if k.ApiKey == apiKey {
			return k.BrandID, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeKeys) GetByBrandID(ctx context.Context, brandID string) ([]*models.ApiKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ApiKey
	for _, k := range f.keys {
		if k.BrandID == brandID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeKeys) Create(ctx context.Context, tx *sql.Tx, apiKey *models.ApiKey) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c := *apiKey
	c.ID = f.seq
	f.keys = append(f.keys, &c)
	return c.ID, nil
}

func (f *fakeKeys) CheckByBrandID(ctx context.Context, keyID int64, brandID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.keys {
		if k.ID == keyID && k.BrandID == brandID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeKeys) Remove(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, k := range f.keys {
		if k.ID == id {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeStorage struct {
	uploads map[string]string
	fail    error
}

func (f *fakeStorage) Upload(ctx context.Context, key string, file []byte, contentType string) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	if f.uploads == nil {
		f.uploads = make(map[string]string)
	}
	f.uploads[key] = contentType
	return "https://assets.example.com/" + key, nil
}

// scriptedRand replays fixed draws, wrapping each into [0, n).
type scriptedRand struct {
	draws []int
	i     int
}

func (r *scriptedRand) IntN(n int) int {
	v := r.draws[r.i%len(r.draws)]
	r.i++
	return v % n
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
