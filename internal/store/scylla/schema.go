package scylla

import (
	"fmt"
)

// Tables attendues. En production elles sont créées par les scripts CQL ;
// EnsureSchema ne sert qu'en dev.
var productsSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY,
		name text,
		description text,
		price double,
		category text,
		image_url text,
		stock_quantity int,
		created_at timestamp
	)`,
}

var cartsSchema = []string{
	`CREATE TABLE IF NOT EXISTS cart_items (
		user_id uuid,
		product_id uuid,
		item_id timeuuid,
		quantity int,
		created_at timestamp,
		PRIMARY KEY (user_id, product_id)
	)`,
}

func (s *Store) EnsureSchema() error {
	products, err := s.products()
	if err != nil {
		return err
	}
	for _, stmt := range productsSchema {
		if err := products.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("schéma produits: %w", err)
		}
	}

	carts, err := s.carts()
	if err != nil {
		return err
	}
	for _, stmt := range cartsSchema {
		if err := carts.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("schéma paniers: %w", err)
		}
	}
	return nil
}
