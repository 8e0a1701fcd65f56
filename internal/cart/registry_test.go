package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/store/memstore"
)

func TestRegistry_LoadsOnSignIn(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := memstore.New(product("a", "3.00", 5))
	require.NoError(t, s.CreateItem(context.Background(), models.CartItem{UserID: userID, ProductID: "a", Quantity: 2}))

	r := NewRegistry(s, zap.NewNop())
	defer r.Close()

	_, err := r.For("")
	assert.ErrorIs(t, err, ErrNoUser)

	m, err := r.For(userID)
	require.NoError(t, err)

	same, err := r.For(userID)
	require.NoError(t, err)
	assert.Same(t, m, same)

	require.Eventually(t, func() bool { return m.Snapshot().Loaded }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "6.00", m.TotalPrice().StringFixed(2))
	assert.Equal(t, 1, s.Calls("ListItems"))
}

func TestRegistry_DiscardClosesSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := memstore.New()
	r := NewRegistry(s, zap.NewNop())
	defer r.Close()

	m, err := r.For(userID)
	require.NoError(t, err)
	ch, cancel := m.Subscribe()
	defer cancel()

	r.Discard(userID)
	for range ch {
	}

	_, ok := r.Lookup(userID)
	assert.False(t, ok)
}

func TestRegistry_Refresh(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	s := memstore.New(product("a", "3.00", 5))
	r := NewRegistry(s, zap.NewNop())
	defer r.Close()

	// aucun Manager actif : pas de lecture
	r.Refresh(ctx, userID)
	assert.Equal(t, 0, s.Calls("ListItems"))

	m, err := r.For(userID)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return m.Snapshot().Loaded }, time.Second, 5*time.Millisecond)

	// écriture faite par une autre instance
	require.NoError(t, s.CreateItem(ctx, models.CartItem{UserID: userID, ProductID: "a", Quantity: 1}))
	r.Refresh(ctx, userID)
	assert.Equal(t, 1, m.Quantity("a"))
}

func TestRegistry_EvictIdle(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := memstore.New()
	r := NewRegistry(s, zap.NewNop())
	defer r.Close()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	const watcher = "9f2d1c3e-0a6b-4c7d-8e9f-a1b2c3d4e5f6"
	idle, err := r.For(userID)
	require.NoError(t, err)
	watched, err := r.For(watcher)
	require.NoError(t, err)
	_, cancel := watched.Subscribe()
	defer cancel()

	now = now.Add(10 * time.Minute)
	assert.Zero(t, r.EvictIdle(30*time.Minute), "recent use keeps the cart")

	now = now.Add(time.Hour)
	assert.Equal(t, 1, r.EvictIdle(30*time.Minute))

	_, ok := r.Lookup(userID)
	assert.False(t, ok)
	_, ok = r.Lookup(watcher)
	assert.True(t, ok, "an open subscription keeps the cart")
	assert.True(t, watched.watched())

	// revenir recrée un panier neuf
	again, err := r.For(userID)
	require.NoError(t, err)
	assert.NotSame(t, idle, again)
}

func TestRegistry_StartEviction(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewRegistry(memstore.New(), zap.NewNop())
	_, err := r.For(userID)
	require.NoError(t, err)

	r.StartEviction(time.Nanosecond, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := r.Lookup(userID)
		return !ok
	}, time.Second, 5*time.Millisecond)

	r.Close()
}
