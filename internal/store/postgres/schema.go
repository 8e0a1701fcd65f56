package postgres

import (
	"context"
	"fmt"
)

// Schema des tables attendues côté service hébergé. La contrainte unique
// porte l'invariant « une ligne par (utilisateur, produit) ».
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name           text NOT NULL,
	description    text,
	price          numeric(12,2) NOT NULL CHECK (price >= 0),
	category       text NOT NULL,
	image_url      text,
	stock_quantity integer NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
	created_at     timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cart_items (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    uuid NOT NULL,
	product_id uuid NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	quantity   integer NOT NULL CHECK (quantity > 0),
	created_at timestamptz NOT NULL DEFAULT now(),
	UNIQUE (user_id, product_id)
);
`

// EnsureSchema crée les tables si besoin (dev uniquement).
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("schéma postgres: %w", err)
	}
	return nil
}
