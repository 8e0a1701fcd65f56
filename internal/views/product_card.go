package views

import (
	"shopeasy_storefront/internal/models"
)

// CardState est l'état de rendu, exclusif, du contrôle panier d'une carte
// produit. L'ordre des constantes est l'ordre de priorité.
type CardState int

const (
	CardSignIn CardState = iota
	CardOutOfStock
	CardAdd
	CardStepper
)

func (s CardState) String() string {
	switch s {
	case CardSignIn:
		return "sign-in"
	case CardOutOfStock:
		return "out-of-stock"
	case CardAdd:
		return "add"
	default:
		return "stepper"
	}
}

var categoryBadges = map[models.Category]string{
	models.CategoryElectronics: "badge-blue",
	models.CategoryClothing:    "badge-purple",
	models.CategoryBooks:       "badge-green",
	models.CategoryHome:        "badge-orange",
	models.CategorySports:      "badge-red",
	models.CategoryBeauty:      "badge-pink",
	models.CategoryToys:        "badge-yellow",
}

// BadgeClass renvoie la classe CSS du badge de catégorie.
func BadgeClass(c models.Category) string {
	if class, ok := categoryBadges[c]; ok {
		return class
	}
	return "badge-secondary"
}

type ProductCard struct {
	Product  models.Product
	State    CardState
	Quantity int
	// OutOfStock est vrai dès que le stock est nul, connecté ou non.
	OutOfStock bool
}

// NewProductCard évalue l'état de la carte une seule fois :
// non connecté, puis rupture de stock, puis absent du panier, puis stepper.
func NewProductCard(p models.Product, user *models.User, quantity int) ProductCard {
	card := ProductCard{Product: p, Quantity: quantity, OutOfStock: !p.InStock()}
	switch {
	case !user.SignedIn():
		card.State = CardSignIn
		card.Quantity = 0
	case !p.InStock():
		card.State = CardOutOfStock
	case quantity <= 0:
		card.State = CardAdd
		card.Quantity = 0
	default:
		card.State = CardStepper
	}
	return card
}

// ProductCards construit les cartes d'une grille à partir de l'état panier.
func ProductCards(products []models.Product, user *models.User, cart models.CartSnapshot) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, NewProductCard(p, user, cart.QuantityOf(p.ID)))
	}
	return cards
}

func (c ProductCard) IsSignIn() bool     { return c.State == CardSignIn }
func (c ProductCard) IsOutOfStock() bool { return c.State == CardOutOfStock }
func (c ProductCard) IsAdd() bool        { return c.State == CardAdd }
func (c ProductCard) IsStepper() bool    { return c.State == CardStepper }

// Disabled : aucune mutation possible depuis la carte.
func (c ProductCard) Disabled() bool {
	return c.State == CardSignIn || c.State == CardOutOfStock
}

// Label du bouton principal pour les états sans stepper.
func (c ProductCard) Label() string {
	switch c.State {
	case CardSignIn:
		return "Sign in to purchase"
	case CardOutOfStock:
		return "Out of Stock"
	case CardAdd:
		return "Add to Cart"
	default:
		return ""
	}
}

// CanIncrement est faux une fois le stock atteint.
func (c ProductCard) CanIncrement() bool {
	return c.State == CardStepper && c.Quantity < c.Product.StockQuantity
}

// DecrementRemoves : à la quantité 1, « − » supprime la ligne.
func (c ProductCard) DecrementRemoves() bool {
	return c.State == CardStepper && c.Quantity == 1
}

// IncrementQuantity / DecrementQuantity sont les quantités cibles des
// boutons du stepper.
func (c ProductCard) IncrementQuantity() int { return c.Quantity + 1 }
func (c ProductCard) DecrementQuantity() int { return c.Quantity - 1 }

func (c ProductCard) BadgeClass() string { return BadgeClass(c.Product.Category) }
func (c ProductCard) Price() string      { return FormatMoney(c.Product.Price) }
