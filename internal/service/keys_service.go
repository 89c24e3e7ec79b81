package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/repository"
	"github.com/shipsocial/shipsocial-api/pkg/utils"
)

const maxApiKeys = 5

type ApiKeyService interface {
	Create(ctx context.Context, brandID string) (*models.ApiKey, error)
	List(ctx context.Context, brandID string) ([]*models.ApiKey, error)
	GetBrandID(ctx context.Context, apiKey string) (string, error)
	RemoveAPIKey(ctx context.Context, brandID string, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, brandID string) (*models.ApiKey, error) {
	keys, err := s.k.GetByBrandID(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if len(keys) >= maxApiKeys {
		err = fmt.Errorf("%w: only %d API keys can be created", ErrInvalidState, maxApiKeys)
		slog.Info(err.Error())
		return nil, err
	}

	key, err := utils.GenerateRandomKey(24)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error generating API key")
	}

	apiKey := &models.ApiKey{
		BrandID: brandID,
		ApiKey:  key,
	}

	apiKey.ID, err = s.k.Create(ctx, nil, apiKey)
	if err != nil {
		return nil, fmt.Errorf("error saving API key: %w", err)
	}
	return apiKey, nil
}

func (s *apiKeyService) GetBrandID(ctx context.Context, apiKey string) (string, error) {
	brandID, isExist, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return "", err
	}

	if !isExist {
		return "", fmt.Errorf("%w: key doesn't exist", ErrNotFound)
	}

	return brandID, nil
}

func (s *apiKeyService) List(ctx context.Context, brandID string) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.GetByBrandID(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys: %w", err)
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, brandID string, keyID int64) error {
	var err error

	if brandID == "" {
		err = errors.New("brand id is not valid")
		slog.Info(err.Error())
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if keyID == 0 {
		err = errors.New("key id is not valid")
		slog.Info(err.Error())
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	isValid, err := s.k.CheckByBrandID(ctx, keyID, brandID)
	if err != nil {
		return err
	}

	if !isValid {
		return fmt.Errorf("%w: key doesn't exist", ErrNotFound)
	}

	return s.k.Remove(ctx, keyID)
}
