package memstore

import (
	"time"

	"github.com/shopspring/decimal"

	"shopeasy_storefront/internal/models"
)

// DemoCatalog est le catalogue chargé en mode DATA_BACKEND=memory.
func DemoCatalog(now time.Time) []models.Product {
	p := func(id, name, desc, price string, cat models.Category, stock int, age time.Duration) models.Product {
		return models.Product{
			ID:            id,
			Name:          name,
			Description:   desc,
			Price:         decimal.RequireFromString(price),
			Category:      cat,
			StockQuantity: stock,
			CreatedAt:     now.Add(-age),
		}
	}
	return []models.Product{
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0001", "Wireless Headphones", "Over-ear, 30h battery.", "89.99", models.CategoryElectronics, 12, 1*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0002", "Cotton T-Shirt", "Organic cotton, unisex fit.", "19.50", models.CategoryClothing, 40, 2*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0003", "The Go Programming Language", "", "34.00", models.CategoryBooks, 5, 3*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0004", "Ceramic Mug", "350ml, dishwasher safe.", "10.00", models.CategoryHome, 0, 4*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0005", "Yoga Mat", "6mm, non-slip.", "25.00", models.CategorySports, 8, 5*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0006", "Face Cream", "Hydrating, 50ml.", "5.50", models.CategoryBeauty, 20, 6*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0007", "Wooden Puzzle", "500 pieces.", "14.25", models.CategoryToys, 3, 7*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0008", "USB-C Cable", "2m braided.", "9.99", models.CategoryElectronics, 100, 8*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0009", "Desk Lamp", "LED, dimmable.", "42.00", models.CategoryHome, 1, 9*time.Hour),
		p("7b1e0c6a-1f53-4c1e-9d53-0f1d2b8f0010", "Garden Gnome", "", "12.00", models.Category("garden"), 6, 10*time.Hour),
	}
}
