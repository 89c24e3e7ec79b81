package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/repository"
)

const maxExportRows = 2000

var slugSpaces = regexp.MustCompile(`\s+`)

var exportHeader = []string{
	"scheduled_at_iso", "platform", "status", "title", "body", "alt_text", "hashtags", "why_note", "framework",
	"pillar_id", "asset_url", "utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_url",
}

type ExportService interface {
	ScheduledCSV(ctx context.Context, brandID string, ids []string) ([]byte, string, error)
}

type exportService struct {
	pr  repository.PostRepository
	br  repository.BrandRepository
	now func() time.Time
}

func NewExportService(pr repository.PostRepository, br repository.BrandRepository) ExportService {
	return &exportService{pr: pr, br: br, now: time.Now}
}

// ScheduledCSV renders the brand's scheduled posts, optionally limited to ids,
// as CSV ordered by scheduled time. It returns the body and a file name.
func (s *exportService) ScheduledCSV(ctx context.Context, brandID string, ids []string) ([]byte, string, error) {
	brand, exists, err := s.br.GetByID(ctx, brandID)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", fmt.Errorf("%w: brand %s", ErrNotFound, brandID)
	}

	posts, _, err := s.pr.List(ctx, brandID, models.PostFilter{
		Status: models.PostStatusScheduled,
		IDs:    ids,
		Limit:  maxExportRows,
	})
	if err != nil {
		return nil, "", fmt.Errorf("list scheduled posts: %w", err)
	}

	now := s.now()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, "", err
	}
	for _, p := range posts {
		if p.ScheduledAt == nil {
			continue
		}
		utm := buildUTM(brand, p, now)
		row := []string{
			p.ScheduledAt.UTC().Format(time.RFC3339),
			string(p.Platform),
			string(p.Status),
			p.Title,
			p.Body,
			p.AltText,
			strings.Join(p.Hashtags, " "),
			p.WhyNote,
			p.Framework,
			p.PillarID,
			p.AssetURL,
			utm.Source,
			utm.Medium,
			utm.Campaign,
			utm.Content,
			utm.URL,
		}
		if err := w.Write(row); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	prefix := "shipsocial_scheduled"
	if len(ids) > 0 {
		prefix = "shipsocial_selected"
	}
	return buf.Bytes(), fmt.Sprintf("%s_%s.csv", prefix, now.Format("20060102")), nil
}

type utmTags struct {
	Source   string
	Medium   string
	Campaign string
	Content  string
	URL      string
}

func buildUTM(brand *models.Brand, post *models.Post, now time.Time) utmTags {
	tags := utmTags{
		Source:   string(post.Platform),
		Medium:   "social",
		Campaign: fmt.Sprintf("%s_%s", campaignSlug(brand.Name), now.Format("200601")),
		Content:  post.ID,
	}

	base := strings.TrimSpace(brand.Website)
	if base == "" {
		base = "https://example.com/"
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return tags
	}
	if u.Path == "" {
		u.Path = "/"
	}
	q := u.Query()
	q.Set("utm_source", tags.Source)
	q.Set("utm_medium", tags.Medium)
	q.Set("utm_campaign", tags.Campaign)
	q.Set("utm_content", tags.Content)
	u.RawQuery = q.Encode()
	tags.URL = u.String()
	return tags
}

func campaignSlug(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "shipsocial"
	}
	return strings.ToLower(slugSpaces.ReplaceAllString(name, "_"))
}
