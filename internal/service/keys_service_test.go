package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiKeyLifecycle(t *testing.T) {
	keys := &fakeKeys{}
	svc := NewApiKeyService(keys)

	var last int64
	for i := 0; i < maxApiKeys; i++ {
		k, err := svc.Create(context.Background(), testBrand)
		require.NoError(t, err)
		assert.NotEmpty(t, k.ApiKey)
		last = k.ID
	}
	_, err := svc.Create(context.Background(), testBrand)
	assert.ErrorIs(t, err, ErrInvalidState)

	list, err := svc.List(context.Background(), testBrand)
	require.NoError(t, err)
	require.Len(t, list, maxApiKeys)

	brandID, err := svc.GetBrandID(context.Background(), list[0].ApiKey)
	require.NoError(t, err)
	assert.Equal(t, testBrand, brandID)

	_, err = svc.GetBrandID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.RemoveAPIKey(context.Background(), "other-brand", last), ErrNotFound)
	assert.ErrorIs(t, svc.RemoveAPIKey(context.Background(), testBrand, 0), ErrInvalidInput)
	require.NoError(t, svc.RemoveAPIKey(context.Background(), testBrand, last))

	_, err = svc.Create(context.Background(), testBrand)
	assert.NoError(t, err)
}
