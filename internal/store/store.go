// Package store définit le contrat avec le service de données distant :
// lecture du catalogue et table des lignes de panier.
package store

import (
	"context"
	"errors"

	"shopeasy_storefront/internal/models"
)

var (
	ErrNotFound = errors.New("store: not found")
	// ErrConflict : une ligne existe déjà pour ce couple (utilisateur, produit).
	ErrConflict = errors.New("store: cart item already exists")
)

// ProductStore est en lecture seule côté vitrine.
type ProductStore interface {
	// ListRecent renvoie au plus limit produits, du plus récent au plus ancien.
	ListRecent(ctx context.Context, limit int) ([]models.Product, error)
	// ListAll renvoie le catalogue complet, filtré par catégorie si non vide.
	ListAll(ctx context.Context, category models.Category) ([]models.Product, error)
	GetProduct(ctx context.Context, productID string) (models.Product, error)
}

// CartStore gère la table des lignes de panier. Chaque appel est atomique
// isolément, aucune transaction n'englobe plusieurs appels.
type CartStore interface {
	// ListItems renvoie les lignes de l'utilisateur avec leur produit joint.
	ListItems(ctx context.Context, userID string) ([]models.CartItem, error)
	CreateItem(ctx context.Context, item models.CartItem) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	DeleteItem(ctx context.Context, userID, productID string) error
	DeleteAll(ctx context.Context, userID string) error
}

// Store regroupe les deux tables ; chaque backend l'implémente.
type Store interface {
	ProductStore
	CartStore
	Close()
}

// MaxFeatured est la taille de la sélection de la page d'accueil.
const MaxFeatured = 8
