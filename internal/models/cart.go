package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ProductID string    `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LineTotal = quantité × prix unitaire, sans arrondi.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSnapshot est une copie figée de l'état du panier d'un utilisateur.
type CartSnapshot struct {
	UserID  string     `json:"user_id"`
	Items   []CartItem `json:"items"`
	Loading bool       `json:"loading"`
	Loaded  bool       `json:"loaded"`
	Err     string     `json:"error,omitempty"`
}

// TotalPrice est recalculé à partir des lignes à chaque appel, jamais stocké.
func (s CartSnapshot) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (s CartSnapshot) Count() int {
	return len(s.Items)
}

// QuantityOf renvoie 0 si le produit n'est pas dans le panier.
func (s CartSnapshot) QuantityOf(productID string) int {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

func (s CartSnapshot) Item(productID string) (CartItem, bool) {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}
