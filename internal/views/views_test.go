package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopeasy_storefront/internal/models"
)

var alice = &models.User{ID: "u-1", Email: "alice@example.com"}

func product(id string, price string, stock int) models.Product {
	return models.Product{
		ID:            id,
		Name:          "Product " + id,
		Price:         decimal.RequireFromString(price),
		Category:      models.CategoryBooks,
		StockQuantity: stock,
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func item(p models.Product, qty int) models.CartItem {
	return models.CartItem{ID: "ci-" + p.ID, UserID: alice.ID, ProductID: p.ID, Quantity: qty, Product: p}
}

func TestProductCardStates(t *testing.T) {
	inStock := product("p1", "10.00", 3)
	empty := product("p2", "5.00", 0)

	tests := []struct {
		name     string
		product  models.Product
		user     *models.User
		qty      int
		want     CardState
		disabled bool
		label    string
	}{
		{"anonymous", inStock, nil, 0, CardSignIn, true, "Sign in to purchase"},
		{"anonymous out of stock", empty, nil, 0, CardSignIn, true, "Sign in to purchase"},
		{"user without id", inStock, &models.User{}, 0, CardSignIn, true, "Sign in to purchase"},
		{"out of stock", empty, alice, 0, CardOutOfStock, true, "Out of Stock"},
		{"not in cart", inStock, alice, 0, CardAdd, false, "Add to Cart"},
		{"in cart", inStock, alice, 2, CardStepper, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := NewProductCard(tt.product, tt.user, tt.qty)
			assert.Equal(t, tt.want, card.State)
			assert.Equal(t, tt.disabled, card.Disabled())
			assert.Equal(t, tt.label, card.Label())
		})
	}
}

func TestProductCardOutOfStockBadgeRegardlessOfAuth(t *testing.T) {
	empty := product("p2", "5.00", 0)
	assert.True(t, NewProductCard(empty, nil, 0).OutOfStock)
	assert.True(t, NewProductCard(empty, alice, 0).OutOfStock)
	assert.False(t, NewProductCard(product("p1", "1", 1), nil, 0).OutOfStock)
}

func TestProductCardStepper(t *testing.T) {
	p := product("p1", "10.00", 3)

	card := NewProductCard(p, alice, 1)
	assert.True(t, card.DecrementRemoves())
	assert.True(t, card.CanIncrement())
	assert.Equal(t, 2, card.IncrementQuantity())

	card = NewProductCard(p, alice, 3)
	assert.False(t, card.DecrementRemoves())
	assert.False(t, card.CanIncrement())
	assert.Equal(t, 2, card.DecrementQuantity())
}

func TestBadgeClass(t *testing.T) {
	assert.Equal(t, "badge-blue", BadgeClass(models.CategoryElectronics))
	assert.Equal(t, "badge-yellow", BadgeClass(models.CategoryToys))
	assert.Equal(t, "badge-secondary", BadgeClass("garden"))
}

func TestCartPageStates(t *testing.T) {
	p := product("p1", "10.00", 3)

	assert.Equal(t, PageSignIn, NewCartPage(nil, models.CartSnapshot{Loaded: true}).State)
	assert.Equal(t, PageLoading, NewCartPage(alice, models.CartSnapshot{Loading: true}).State)
	assert.Equal(t, PageLoading, NewCartPage(alice, models.CartSnapshot{}).State)
	assert.Equal(t, PageEmpty, NewCartPage(alice, models.CartSnapshot{Loaded: true}).State)
	assert.False(t, NewCartPage(alice, models.CartSnapshot{Loaded: true}).Unavailable)

	// chargement initial en échec : vide dégradé, jamais bloqué en chargement
	failed := NewCartPage(alice, models.CartSnapshot{Err: "timeout"})
	assert.Equal(t, PageEmpty, failed.State)
	assert.True(t, failed.Unavailable)
	assert.Equal(t, PageLoading, NewCartPage(alice, models.CartSnapshot{Loading: true, Err: "timeout"}).State)
	// une écriture ratée après chargement garde les lignes
	kept := NewCartPage(alice, models.CartSnapshot{Loaded: true, Err: "timeout", Items: []models.CartItem{item(p, 1)}})
	assert.Equal(t, PageItems, kept.State)
	assert.False(t, kept.Unavailable)

	page := NewCartPage(alice, models.CartSnapshot{Loaded: true, Items: []models.CartItem{item(p, 2)}})
	require.Equal(t, PageItems, page.State)
	require.Len(t, page.Lines, 1)
	assert.Equal(t, "$20.00", page.Lines[0].Subtotal)
	assert.Equal(t, "$10.00", page.Lines[0].UnitPrice())
	assert.Equal(t, "1 item in your cart", page.CountLabel())
}

func TestCartLineStepperBounds(t *testing.T) {
	p := product("p1", "10.00", 3)

	line := NewCartPage(alice, models.CartSnapshot{Loaded: true, Items: []models.CartItem{item(p, 1)}}).Lines[0]
	assert.False(t, line.CanDecrement())
	assert.True(t, line.CanIncrement())

	line = NewCartPage(alice, models.CartSnapshot{Loaded: true, Items: []models.CartItem{item(p, 3)}}).Lines[0]
	assert.True(t, line.CanDecrement())
	assert.False(t, line.CanIncrement())
}

func TestOrderSummary(t *testing.T) {
	a := product("a", "10.00", 5)
	b := product("b", "5.50", 5)
	snap := models.CartSnapshot{Loaded: true, Items: []models.CartItem{item(a, 2), item(b, 1)}}

	page := NewCartPage(alice, snap)
	s := page.Summary

	assert.Equal(t, "$25.50", FormatMoney(s.Subtotal))
	assert.Equal(t, "$2.55", FormatMoney(s.Tax))
	assert.Equal(t, "$28.05", FormatMoney(s.Total))
	assert.Equal(t, "Free", s.ShippingLabel())
	assert.True(t, s.Subtotal.Equal(snap.TotalPrice()))
	assert.True(t, s.Total.Equal(s.Subtotal.Add(s.Tax).Add(s.Shipping)))
	assert.Equal(t, "2 items in your cart", page.CountLabel())
}

func TestOrderSummaryRoundsOnlyForDisplay(t *testing.T) {
	p := product("p", "0.05", 10)
	s := Summarize([]SummaryLine{{Name: p.Name, Quantity: 1, Total: p.Price}})

	assert.Equal(t, "0.005", s.Tax.String())
	assert.Equal(t, "$0.01", FormatMoney(s.Tax))
	assert.Equal(t, "$0.06", FormatMoney(s.Total))
}

func TestLandingPage(t *testing.T) {
	products := []models.Product{product("p1", "1.00", 1), product("p2", "2.00", 0)}
	cart := models.CartSnapshot{Loaded: true, Items: []models.CartItem{item(products[0], 1)}}

	loading := NewLandingPage(alice, products, cart, true)
	assert.True(t, loading.Loading)
	assert.Empty(t, loading.Cards)

	page := NewLandingPage(alice, products, cart, false)
	require.Len(t, page.Cards, 2)
	assert.Equal(t, CardStepper, page.Cards[0].State)
	assert.Equal(t, CardOutOfStock, page.Cards[1].State)

	assert.Empty(t, NewLandingPage(nil, nil, models.CartSnapshot{}, false).Cards)
}

func TestCatalogPageMarksSelectedCategory(t *testing.T) {
	page := NewCatalogPage(nil, "", models.CategoryHome, nil, models.CartSnapshot{})
	require.Len(t, page.Categories, len(models.KnownCategories))
	for _, opt := range page.Categories {
		assert.Equal(t, opt.Value == models.CategoryHome, opt.Selected)
	}
}

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	p := product("p1", "10.00", 3)
	snap := models.CartSnapshot{Loaded: true, Items: []models.CartItem{item(p, 2)}}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "cart.html", Document{
		Nav:  Nav{User: alice, CartCount: 1},
		Page: NewCartPage(alice, snap),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `data-total>$22.00<`)
	assert.Contains(t, buf.String(), "Clear Cart")

	buf.Reset()
	err = tmpl.ExecuteTemplate(&buf, "landing.html", Document{
		Page:    NewLandingPage(nil, nil, models.CartSnapshot{}, true),
		Refresh: true,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "data-loading")
	assert.Contains(t, buf.String(), `http-equiv="refresh"`)

	buf.Reset()
	err = tmpl.ExecuteTemplate(&buf, "products.html", Document{
		Page: NewCatalogPage(nil, "", "", []models.Product{p}, models.CartSnapshot{}),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Sign in to purchase")

	buf.Reset()
	err = tmpl.ExecuteTemplate(&buf, "auth.html", Document{
		Nav:  Nav{DevLogin: true},
		Page: AuthPage{Providers: []string{"google"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Continue with Google")
}
