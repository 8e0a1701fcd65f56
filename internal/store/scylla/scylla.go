// Package scylla implémente le service de données sur ScyllaDB : keyspace
// produits (lecture seule) et keyspace paniers.
package scylla

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"

	"shopeasy_storefront/internal/database"
	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/store"
)

const productColumns = `product_id, name, description, price, category, image_url, stock_quantity, created_at`

type Store struct {
	manager          *database.ScyllaManager
	productsKeyspace string
	cartsKeyspace    string
}

var _ store.Store = (*Store)(nil)

func New(manager *database.ScyllaManager, productsKeyspace, cartsKeyspace string) *Store {
	return &Store{
		manager:          manager,
		productsKeyspace: productsKeyspace,
		cartsKeyspace:    cartsKeyspace,
	}
}

func (s *Store) products() (*gocql.Session, error) {
	return s.manager.GetSession(s.productsKeyspace)
}

func (s *Store) carts() (*gocql.Session, error) {
	return s.manager.GetSession(s.cartsKeyspace)
}

type productRow struct {
	id          gocql.UUID
	name        string
	description string
	price       float64
	category    string
	imageURL    string
	stock       int
	createdAt   time.Time
}

func (r *productRow) dest() []interface{} {
	return []interface{}{&r.id, &r.name, &r.description, &r.price, &r.category, &r.imageURL, &r.stock, &r.createdAt}
}

func (r productRow) model() models.Product {
	return models.Product{
		ID:            r.id.String(),
		Name:          r.name,
		Description:   r.description,
		Price:         decimal.NewFromFloat(r.price),
		Category:      models.Category(r.category),
		ImageURL:      r.imageURL,
		StockQuantity: r.stock,
		CreatedAt:     r.createdAt,
	}
}

// scanProducts lit toute la table. Scylla ne sait pas trier hors partition,
// le tri par date se fait donc en mémoire.
func (s *Store) scanProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	session, err := s.products()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var row productRow
	for iter.Scan(row.dest()...) {
		p := row.model()
		if category == "" || p.Category == category {
			products = append(products, p)
		}
		row = productRow{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture produits: %w", err)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.Product, error) {
	products, err := s.scanProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *Store) ListAll(ctx context.Context, category models.Category) ([]models.Product, error) {
	return s.scanProducts(ctx, category)
}

func (s *Store) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	id, err := gocql.ParseUUID(productID)
	if err != nil {
		return models.Product{}, store.ErrNotFound
	}
	session, err := s.products()
	if err != nil {
		return models.Product{}, err
	}

	var row productRow
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(row.dest()...)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.Product{}, store.ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("lecture produit %s: %w", productID, err)
	}
	return row.model(), nil
}

func (s *Store) ListItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	uid, err := gocql.ParseUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("user_id invalide: %w", err)
	}
	session, err := s.carts()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT item_id, product_id, quantity, created_at FROM cart_items WHERE user_id = ?`, uid).
		WithContext(ctx).Iter()

	items := []models.CartItem{}
	var (
		itemID, productID gocql.UUID
		quantity          int
		createdAt         time.Time
	)
	for iter.Scan(&itemID, &productID, &quantity, &createdAt) {
		items = append(items, models.CartItem{
			ID:        itemID.String(),
			UserID:    userID,
			ProductID: productID.String(),
			Quantity:  quantity,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture panier: %w", err)
	}

	// Jointure produit côté client ; une ligne dont le produit a disparu
	// du catalogue est ignorée.
	joined := items[:0]
	for _, item := range items {
		p, err := s.GetProduct(ctx, item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		item.Product = p
		joined = append(joined, item)
	}

	sort.SliceStable(joined, func(i, j int) bool {
		return joined[i].CreatedAt.Before(joined[j].CreatedAt)
	})
	return joined, nil
}

func (s *Store) CreateItem(ctx context.Context, item models.CartItem) error {
	uid, pid, err := parseKeys(item.UserID, item.ProductID)
	if err != nil {
		return err
	}
	session, err := s.carts()
	if err != nil {
		return err
	}

	itemID := gocql.TimeUUID()
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	// LWT : garantit une seule ligne par (user, produit)
	applied, err := session.Query(`INSERT INTO cart_items (user_id, product_id, item_id, quantity, created_at)
		VALUES (?, ?, ?, ?, ?) IF NOT EXISTS`, uid, pid, itemID, item.Quantity, createdAt).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("création ligne panier: %w", err)
	}
	if !applied {
		return store.ErrConflict
	}
	return nil
}

func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	uid, pid, err := parseKeys(userID, productID)
	if err != nil {
		return err
	}
	session, err := s.carts()
	if err != nil {
		return err
	}

	applied, err := session.Query(`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ? IF EXISTS`,
		quantity, uid, pid).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("mise à jour quantité: %w", err)
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, userID, productID string) error {
	uid, pid, err := parseKeys(userID, productID)
	if err != nil {
		return err
	}
	session, err := s.carts()
	if err != nil {
		return err
	}
	if err := session.Query(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, uid, pid).
		WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("suppression ligne panier: %w", err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, userID string) error {
	uid, err := gocql.ParseUUID(userID)
	if err != nil {
		return fmt.Errorf("user_id invalide: %w", err)
	}
	session, err := s.carts()
	if err != nil {
		return err
	}
	if err := session.Query(`DELETE FROM cart_items WHERE user_id = ?`, uid).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("vidage panier: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.manager.Close()
}

func parseKeys(userID, productID string) (gocql.UUID, gocql.UUID, error) {
	uid, err := gocql.ParseUUID(userID)
	if err != nil {
		return gocql.UUID{}, gocql.UUID{}, fmt.Errorf("user_id invalide: %w", err)
	}
	pid, err := gocql.ParseUUID(productID)
	if err != nil {
		return gocql.UUID{}, gocql.UUID{}, fmt.Errorf("product_id invalide: %w", err)
	}
	return uid, pid, nil
}
