package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/store"
)

func TestListRecent_OrderAndLimit(t *testing.T) {
	s := New(DemoCatalog(time.Now())...)

	products, err := s.ListRecent(context.Background(), store.MaxFeatured)
	require.NoError(t, err)
	require.Len(t, products, store.MaxFeatured)
	for i := 1; i < len(products); i++ {
		assert.True(t, products[i-1].CreatedAt.After(products[i].CreatedAt))
	}
	assert.Equal(t, "Wireless Headphones", products[0].Name)
}

func TestListAll_Category(t *testing.T) {
	s := New(DemoCatalog(time.Now())...)

	products, err := s.ListAll(context.Background(), models.CategoryElectronics)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestCartItems_Lifecycle(t *testing.T) {
	ctx := context.Background()
	p := models.Product{ID: "p1", Name: "Book", Price: decimal.RequireFromString("10.00"), StockQuantity: 5}
	s := New(p)

	require.NoError(t, s.CreateItem(ctx, models.CartItem{UserID: "u1", ProductID: "p1", Quantity: 2}))
	assert.ErrorIs(t, s.CreateItem(ctx, models.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}), store.ErrConflict)

	items, err := s.ListItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Book", items[0].Product.Name)
	assert.NotEmpty(t, items[0].ID)

	require.NoError(t, s.UpdateQuantity(ctx, "u1", "p1", 4))
	assert.ErrorIs(t, s.UpdateQuantity(ctx, "u2", "p1", 4), store.ErrNotFound)

	require.NoError(t, s.DeleteItem(ctx, "u1", "p1"))
	require.NoError(t, s.DeleteItem(ctx, "u1", "p1"))

	items, err = s.ListItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFailOn(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	s.FailOn("ListItems", boom)
	_, err := s.ListItems(ctx, "u1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Calls("ListItems"))

	s.FailOn("ListItems", nil)
	_, err = s.ListItems(ctx, "u1")
	assert.NoError(t, err)
}
