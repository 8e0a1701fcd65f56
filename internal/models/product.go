package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category est le libellé de rayon d'un produit. La liste est ouverte :
// un libellé inconnu est conservé tel quel.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
	CategoryBeauty      Category = "beauty"
	CategoryToys        Category = "toys"
)

// KnownCategories dans l'ordre d'affichage.
var KnownCategories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHome,
	CategorySports,
	CategoryBeauty,
	CategoryToys,
}

func (c Category) Known() bool {
	for _, k := range KnownCategories {
		if k == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID            string          `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description,omitempty" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Category      Category        `json:"category" db:"category"`
	ImageURL      string          `json:"image_url,omitempty" db:"image_url"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}
