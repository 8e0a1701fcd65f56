// Package postgres implémente le service de données sur une base Postgres
// hébergée (tables products et cart_items).
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/store"
)

const uniqueViolation = "23505"

const selectProduct = `SELECT id::text, name, coalesce(description, ''), price::text, category,
	coalesce(image_url, ''), stock_quantity, created_at FROM products`

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var (
		p     models.Product
		price string
		cat   string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &cat, &p.ImageURL, &p.StockQuantity, &p.CreatedAt); err != nil {
		return models.Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return models.Product{}, fmt.Errorf("prix invalide %q: %w", price, err)
	}
	p.Price = d
	p.Category = models.Category(cat)
	return p, nil
}

func (s *Store) queryProducts(ctx context.Context, sql string, args ...any) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("lecture produits: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.Product, error) {
	return s.queryProducts(ctx, selectProduct+` ORDER BY created_at DESC LIMIT $1`, limit)
}

func (s *Store) ListAll(ctx context.Context, category models.Category) ([]models.Product, error) {
	if category == "" {
		return s.queryProducts(ctx, selectProduct+` ORDER BY created_at DESC`)
	}
	return s.queryProducts(ctx, selectProduct+` WHERE category = $1 ORDER BY created_at DESC`, string(category))
}

func (s *Store) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, selectProduct+` WHERE id::text = $1`, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, store.ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("lecture produit %s: %w", productID, err)
	}
	return p, nil
}

func (s *Store) ListItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ci.id::text, ci.user_id::text, ci.product_id::text, ci.quantity, ci.created_at,
		       p.id::text, p.name, coalesce(p.description, ''), p.price::text, p.category,
		       coalesce(p.image_url, ''), p.stock_quantity, p.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id::text = $1
		ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("lecture panier: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var (
			item  models.CartItem
			price string
			cat   string
		)
		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Description, &price, &cat,
			&item.Product.ImageURL, &item.Product.StockQuantity, &item.Product.CreatedAt)
		if err != nil {
			return nil, err
		}
		if item.Product.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("prix invalide %q: %w", price, err)
		}
		item.Product.Category = models.Category(cat)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) CreateItem(ctx context.Context, item models.CartItem) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1::uuid, $2::uuid, $3)`,
		item.UserID, item.ProductID, item.Quantity)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("création ligne panier: %w", err)
	}
	return nil
}

func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE user_id = $1::uuid AND product_id = $2::uuid`,
		userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("mise à jour quantité: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, userID, productID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1::uuid AND product_id = $2::uuid`, userID, productID)
	if err != nil {
		return fmt.Errorf("suppression ligne panier: %w", err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1::uuid`, userID)
	if err != nil {
		return fmt.Errorf("vidage panier: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}
