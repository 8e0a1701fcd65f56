package views

import (
	"shopeasy_storefront/internal/models"
)

// Nav est la barre de navigation commune.
type Nav struct {
	User      *models.User
	CartCount int
	DevLogin  bool
	Notice    string
}

// NoticeText traduit le code de notice d'une redirection en message ; vide
// pour un code inconnu.
func NoticeText(code string) string {
	switch code {
	case "rate_limited":
		return "You're updating your cart too quickly. Please wait a moment and try again."
	default:
		return ""
	}
}

// Document est la donnée passée aux gabarits : la navigation, la page et
// un rafraîchissement automatique quand la page est encore en chargement.
type Document struct {
	Nav     Nav
	Page    any
	Refresh bool
}

type LandingPage struct {
	Loading bool
	Cards   []ProductCard
}

// NewLandingPage : pendant le chargement la grille est vide et
// l'indicateur affiché. Une erreur de fetch arrive ici comme une liste vide.
func NewLandingPage(user *models.User, products []models.Product, cart models.CartSnapshot, loading bool) LandingPage {
	page := LandingPage{Loading: loading}
	if !loading {
		page.Cards = ProductCards(products, user, cart)
	}
	return page
}

type CategoryOption struct {
	Value    models.Category
	Selected bool
}

type CatalogPage struct {
	Query      string
	Category   models.Category
	Categories []CategoryOption
	Cards      []ProductCard
}

func NewCatalogPage(user *models.User, query string, category models.Category, products []models.Product, cart models.CartSnapshot) CatalogPage {
	page := CatalogPage{
		Query:    query,
		Category: category,
		Cards:    ProductCards(products, user, cart),
	}
	for _, c := range models.KnownCategories {
		page.Categories = append(page.Categories, CategoryOption{Value: c, Selected: c == category})
	}
	return page
}

type AuthPage struct {
	Providers []string
	Error     string
}
