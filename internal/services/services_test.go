package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/models"
)

func TestImageSigner_WithoutMinIO(t *testing.T) {
	signer := NewImageSigner(nil, "shopeasy-images", 0, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, "", signer.SignedURL(ctx, ""))
	assert.Equal(t, "products/mug.jpg", signer.SignedURL(ctx, "products/mug.jpg"))
	assert.Equal(t, "https://cdn.example.com/a.png", signer.SignedURL(ctx, "https://cdn.example.com/a.png"))

	var nilSigner *ImageSigner
	assert.Equal(t, "x.png", nilSigner.SignedURL(ctx, "x.png"))
}

func TestFilterLocal(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Wireless Headphones"},
		{ID: "2", Name: "Mug", Description: "Ceramic, WIRELESS-free"},
		{ID: "3", Name: "Lamp"},
	}

	got := FilterLocal(products, "  wireless ")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	assert.Len(t, FilterLocal(products, ""), 3)
}

func TestSearchBody(t *testing.T) {
	body := searchBody("mug", models.CategoryHome, 20)
	assert.Equal(t, 20, body["size"])

	b := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Contains(t, b, "filter")

	body = searchBody("mug", "", 20)
	b = body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.NotContains(t, b, "filter")
}

func TestProductSearch_Disabled(t *testing.T) {
	s := NewProductSearch(nil, zap.NewNop())
	assert.False(t, s.Enabled())

	_, err := s.SearchIDs(context.Background(), "mug", "", 10)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
	assert.ErrorIs(t, s.IndexProducts(context.Background(), []models.Product{{ID: "1"}}), ErrSearchUnavailable)
}
