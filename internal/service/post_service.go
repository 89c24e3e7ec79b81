package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/shipsocial/shipsocial-api/internal/generator"
	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/repository"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxAssetSize     = 10 << 20
	fallbackPillar   = "Tutorials"
)

var allowedAssetTypes = map[types.Type]bool{
	filetype.GetType("jpg"):  true,
	filetype.GetType("png"):  true,
	filetype.GetType("webp"): true,
	filetype.GetType("gif"):  true,
}

type PostService interface {
	Generate(ctx context.Context, brandID string, in *transfer.PostGeneration) (*models.Post, error)
	Regenerate(ctx context.Context, brandID, postID string) (*models.Post, error)
	List(ctx context.Context, brandID string, filter models.PostFilter) ([]*models.Post, int, error)
	PostInfo(ctx context.Context, brandID, postID string) (*models.Post, error)
	Remove(ctx context.Context, brandID, postID string) error
	Stats(ctx context.Context, brandID string) (*models.PostStats, error)
	AttachAsset(ctx context.Context, brandID, postID string, file []byte) (*models.Post, error)
}

type postService struct {
	pr      repository.PostRepository
	pl      repository.PillarRepository
	br      repository.BrandRepository
	wr      repository.WindowRepository
	credits CreditsService
	assets  AssetStorage
	now     func() time.Time
}

func NewPostService(
	pr repository.PostRepository,
	pl repository.PillarRepository,
	br repository.BrandRepository,
	wr repository.WindowRepository,
	credits CreditsService,
	assets AssetStorage) PostService {
	return &postService{
		pr:      pr,
		pl:      pl,
		br:      br,
		wr:      wr,
		credits: credits,
		assets:  assets,
		now:     time.Now,
	}
}

// Generate spends one quota unit and stores a new draft. The unit is given
// back when anything after the spend fails.
func (s *postService) Generate(ctx context.Context, brandID string, in *transfer.PostGeneration) (post *models.Post, err error) {
	if in == nil || !in.Platform.Valid() {
		return nil, fmt.Errorf("%w: platform must be one of linkedin, instagram, x, facebook", ErrInvalidInput)
	}

	if err := s.consume(ctx, brandID); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			s.refund(ctx, brandID)
		}
	}()

	brand, err := s.brand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	pillar, err := s.pillar(ctx, brandID, in.PillarID)
	if err != nil {
		return nil, err
	}

	draft := generator.Generate(generator.Input{
		Platform:   in.Platform,
		PillarID:   pillar.ID,
		PillarName: pillar.Name,
		BrandName:  brand.Name,
		Voice:      brand.VoiceCard,
	})

	post = &models.Post{
		BrandID:   brandID,
		PillarID:  pillar.ID,
		Platform:  in.Platform,
		Status:    models.PostStatusDraft,
		Title:     draft.Title,
		Body:      draft.Body,
		AltText:   draft.AltText,
		Hashtags:  draft.Hashtags,
		WhyNote:   draft.WhyNote,
		Framework: draft.Framework,
	}
	post.ID, err = s.pr.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	slog.Info("post generated", "brand_id", brandID, "post_id", post.ID, "platform", post.Platform, "framework", post.Framework)
	return post, nil
}

// Regenerate rewrites the copy of an unpublished post. Status and schedule
// are left as they are.
func (s *postService) Regenerate(ctx context.Context, brandID, postID string) (post *models.Post, err error) {
	post, err = s.PostInfo(ctx, brandID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublished {
		return nil, fmt.Errorf("%w: post %s is already published", ErrInvalidState, postID)
	}

	if err := s.consume(ctx, brandID); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			s.refund(ctx, brandID)
		}
	}()

	brand, err := s.brand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	pillarName := ""
	if p, exists, err := s.pl.GetByID(ctx, brandID, post.PillarID); err != nil {
		return nil, err
	} else if exists {
		pillarName = p.Name
	}

	draft := generator.Regenerate(generator.Input{
		Platform:   post.Platform,
		PillarID:   post.PillarID,
		PillarName: pillarName,
		BrandName:  brand.Name,
		Voice:      brand.VoiceCard,
	}, post)

	post.Title = draft.Title
	post.Body = draft.Body
	post.AltText = draft.AltText
	post.Hashtags = draft.Hashtags
	post.WhyNote = draft.WhyNote
	post.Framework = draft.Framework
	if err := s.pr.UpdateContent(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	slog.Info("post regenerated", "brand_id", brandID, "post_id", post.ID, "kind", draft.Kind, "framework", post.Framework)
	return post, nil
}

func (s *postService) List(ctx context.Context, brandID string, filter models.PostFilter) ([]*models.Post, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	posts, count, err := s.pr.List(ctx, brandID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, count, nil
}

func (s *postService) PostInfo(ctx context.Context, brandID, postID string) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, brandID, postID)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	return post, nil
}

func (s *postService) Remove(ctx context.Context, brandID, postID string) error {
	removed, err := s.pr.Remove(ctx, brandID, postID)
	if err != nil {
		return fmt.Errorf("remove post: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	return nil
}

// Stats counts posts by status, with published limited to the last 7 days.
func (s *postService) Stats(ctx context.Context, brandID string) (*models.PostStats, error) {
	stats, err := s.pr.CountByStatus(ctx, brandID, s.now().Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}
	pillars, err := s.pl.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	windows, err := s.wr.Count(ctx, brandID)
	if err != nil {
		return nil, err
	}
	stats.Pillars = len(pillars)
	stats.Windows = windows
	return stats, nil
}

// AttachAsset stores an image and links it to the post.
func (s *postService) AttachAsset(ctx context.Context, brandID, postID string, file []byte) (*models.Post, error) {
	post, err := s.PostInfo(ctx, brandID, postID)
	if err != nil {
		return nil, err
	}
	if len(file) == 0 || len(file) > maxAssetSize {
		return nil, fmt.Errorf("%w: asset must be between 1 byte and %d bytes", ErrInvalidInput, maxAssetSize)
	}

	kind, err := filetype.Match(file)
	if err != nil || !allowedAssetTypes[kind] {
		return nil, fmt.Errorf("%w: unsupported asset type", ErrInvalidInput)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%s.%s", brandID, id, kind.Extension)

	url, err := s.assets.Upload(ctx, key, file, kind.MIME.Value)
	if err != nil {
		return nil, fmt.Errorf("upload asset: %w", err)
	}
	if err := s.pr.UpdateAsset(ctx, post.ID, url); err != nil {
		return nil, fmt.Errorf("save asset: %w", err)
	}
	post.AssetURL = url
	return post, nil
}

func (s *postService) consume(ctx context.Context, brandID string) error {
	res, err := s.credits.TryConsume(ctx, brandID, 1)
	if err != nil {
		return fmt.Errorf("consume quota: %w", err)
	}
	if !res.Granted {
		slog.Info("generation rejected by quota", "brand_id", brandID, "used", res.Used, "retry_in", res.RetryIn)
		return &QuotaError{Result: res}
	}
	return nil
}

func (s *postService) refund(ctx context.Context, brandID string) {
	if _, err := s.credits.Refund(ctx, brandID, 1); err != nil {
		slog.Error("refund quota", "brand_id", brandID, "error", err)
	}
}

func (s *postService) brand(ctx context.Context, brandID string) (*models.Brand, error) {
	brand, exists, err := s.br.GetByID(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: brand %s", ErrNotFound, brandID)
	}
	return brand, nil
}

// pillar resolves the requested pillar, then the brand's first pillar, and
// creates a default one for brands that have none.
func (s *postService) pillar(ctx context.Context, brandID, pillarID string) (*models.Pillar, error) {
	if pillarID != "" {
		p, exists, err := s.pl.GetByID(ctx, brandID, pillarID)
		if err != nil {
			return nil, err
		}
		if exists {
			return p, nil
		}
	}

	pillars, err := s.pl.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if len(pillars) > 0 {
		return pillars[0], nil
	}

	p := &models.Pillar{BrandID: brandID, Name: fallbackPillar}
	p.ID, err = s.pl.Create(ctx, nil, p)
	if err != nil {
		return nil, err
	}
	return p, nil
}
