package models

import "time"

type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformX         Platform = "x"
	PlatformFacebook  Platform = "facebook"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{PlatformLinkedIn, PlatformInstagram, PlatformX, PlatformFacebook}

func (p Platform) Valid() bool {
	switch p {
	case PlatformLinkedIn, PlatformInstagram, PlatformX, PlatformFacebook:
		return true
	}
	return false
}

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

type Post struct {
	ID          string     `db:"id" json:"id"`
	BrandID     string     `db:"brand_id" json:"brand_id"`
	PillarID    string     `db:"pillar_id" json:"pillar_id"`
	Platform    Platform   `db:"platform" json:"platform"`
	Status      PostStatus `db:"status" json:"status"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	AltText     string     `db:"alt_text" json:"alt_text"`
	Hashtags    []string   `db:"hashtags" json:"hashtags"`
	WhyNote     string     `db:"why_note" json:"why_note"`
	Framework   string     `db:"framework" json:"framework"`
	AssetURL    string     `db:"asset_url" json:"asset_url,omitempty"`
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"` // set iff scheduled or published
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// PostFilter narrows a post listing.
type PostFilter struct {
	Status PostStatus
	IDs    []string
	Limit  int
}

type PostStats struct {
	Drafts      int `json:"drafts"`
	Scheduled   int `json:"scheduled"`
	Published7d int `json:"published7d"`
	Pillars     int `json:"pillars"`
	Windows     int `json:"windows"`
}
