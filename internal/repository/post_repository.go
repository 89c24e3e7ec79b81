package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shipsocial/shipsocial-api/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (string, error)
	GetByID(ctx context.Context, brandID, id string) (*models.Post, error)
	List(ctx context.Context, brandID string, filter models.PostFilter) ([]*models.Post, int, error)
	ScheduledTimes(ctx context.Context, brandID, excludeID string) ([]time.Time, error)
	ListDue(ctx context.Context, before time.Time, limit int) ([]*models.Post, error)
	UpdateSchedule(ctx context.Context, id string, status models.PostStatus, scheduledAt *time.Time) error
	UpdateContent(ctx context.Context, post *models.Post) error
	UpdateAsset(ctx context.Context, id, assetURL string) error
	CountByStatus(ctx context.Context, brandID string, publishedSince time.Time) (*models.PostStats, error)
	Remove(ctx context.Context, brandID, id string) (bool, error)
	RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, brand_id, pillar_id, platform, status, title, body, alt_text, hashtags, why_note, framework, asset_url, scheduled_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var scheduledAt sql.NullTime
	err := row.Scan(&post.ID, &post.BrandID, &post.PillarID, &post.Platform, &post.Status, &post.Title, &post.Body,
		&post.AltText, pq.Array(&post.Hashtags), &post.WhyNote, &post.Framework, &post.AssetURL, &scheduledAt,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time
		post.ScheduledAt = &t
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate post id: %w", err)
	}

	query := `
		INSERT INTO posts (id, brand_id, pillar_id, platform, status, title, body, alt_text, hashtags, why_note, framework, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.ExecContext(ctx, query, id, post.BrandID, post.PillarID, post.Platform, post.Status, post.Title,
		post.Body, post.AltText, pq.Array(post.Hashtags), post.WhyNote, post.Framework, post.ScheduledAt)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return id, nil
}

// GetByID returns nil without error when the post does not exist for the brand.
func (r *postRepository) GetByID(ctx context.Context, brandID, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND brand_id = $2`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id, brandID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, brandID string, filter models.PostFilter) ([]*models.Post, int, error) {
	where := []string{"brand_id = $1"}
	args := []any{brandID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(filter.IDs) > 0 {
		args = append(args, pq.Array(filter.IDs))
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE `+cond, args...).Scan(&count); err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}

	order := "created_at DESC"
	if filter.Status == models.PostStatusScheduled {
		order = "scheduled_at ASC, created_at DESC"
	}
	query := `SELECT ` + postColumns + ` FROM posts WHERE ` + cond + ` ORDER BY ` + order
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, count, rows.Err()
}

// ScheduledTimes lists the timestamps of the brand's scheduled posts other than excludeID.
func (r *postRepository) ScheduledTimes(ctx context.Context, brandID, excludeID string) ([]time.Time, error) {
	query := `SELECT scheduled_at FROM posts WHERE brand_id = $1 AND status = $2 AND scheduled_at IS NOT NULL AND id <> $3`
	rows, err := r.db.QueryContext(ctx, query, brandID, models.PostStatusScheduled, excludeID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// ListDue returns scheduled posts of every brand whose time is not after before.
func (r *postRepository) ListDue(ctx context.Context, before time.Time, limit int) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = $1 AND scheduled_at <= $2 ORDER BY scheduled_at ASC LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusScheduled, before, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) UpdateSchedule(ctx context.Context, id string, status models.PostStatus, scheduledAt *time.Time) error {
	query := `
		UPDATE posts
		SET status = $1,
			scheduled_at = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, status, scheduledAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1,
			body = $2,
			alt_text = $3,
			hashtags = $4,
			why_note = $5,
			framework = $6,
			updated_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query, post.Title, post.Body, post.AltText, pq.Array(post.Hashtags), post.WhyNote,
		post.Framework, time.Now(), post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateAsset(ctx context.Context, id, assetURL string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET asset_url = $1, updated_at = $2 WHERE id = $3`, assetURL, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) CountByStatus(ctx context.Context, brandID string, publishedSince time.Time) (*models.PostStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'scheduled'),
			COUNT(*) FILTER (WHERE status = 'published' AND created_at >= $2)
		FROM posts WHERE brand_id = $1
	`
	var stats models.PostStats
	err := r.db.QueryRowContext(ctx, query, brandID, publishedSince).Scan(&stats.Drafts, &stats.Scheduled, &stats.Published7d)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &stats, nil
}

func (r *postRepository) Remove(ctx context.Context, brandID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND brand_id = $2`, id, brandID)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return rowsAffected(res)
}

func (r *postRepository) RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error {
	_, err := conn(r.db, tx).ExecContext(ctx, `DELETE FROM posts WHERE brand_id = $1`, brandID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
