// Package memstore est un service de données en mémoire, utilisé en mode
// dev (DATA_BACKEND=memory) et comme double dans les tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/store"
)

type key struct {
	userID    string
	productID string
}

type Store struct {
	mu       sync.Mutex
	products map[string]models.Product
	items    map[key]models.CartItem
	failures map[string]error
	calls    map[string]int
}

var _ store.Store = (*Store)(nil)

func New(products ...models.Product) *Store {
	s := &Store{
		products: make(map[string]models.Product),
		items:    make(map[key]models.CartItem),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
	for _, p := range products {
		s.PutProduct(p)
	}
	return s
}

// PutProduct insère ou remplace un produit (le catalogue appartient au
// service distant, ceci ne sert qu'au seed et aux tests).
func (s *Store) PutProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.products[p.ID] = p
}

// FailOn fait échouer toutes les opérations op ("ListItems", "CreateItem",
// ...) avec err. err nil lève la panne.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls renvoie le nombre d'appels reçus par op.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Store) enter(ctx context.Context, op string) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.failures[op]
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "ListRecent"); err != nil {
		return nil, err
	}

	products := s.sortedProducts("")
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *Store) ListAll(ctx context.Context, category models.Category) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "ListAll"); err != nil {
		return nil, err
	}
	return s.sortedProducts(category), nil
}

func (s *Store) sortedProducts(category models.Category) []models.Product {
	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products
}

func (s *Store) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "GetProduct"); err != nil {
		return models.Product{}, err
	}
	p, ok := s.products[productID]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "ListItems"); err != nil {
		return nil, err
	}

	items := []models.CartItem{}
	for k, item := range s.items {
		if k.userID != userID {
			continue
		}
		item.Product = s.products[item.ProductID]
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) CreateItem(ctx context.Context, item models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "CreateItem"); err != nil {
		return err
	}

	k := key{item.UserID, item.ProductID}
	if _, exists := s.items[k]; exists {
		return store.ErrConflict
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.Product = models.Product{}
	s.items[k] = item
	return nil
}

func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "UpdateQuantity"); err != nil {
		return err
	}

	k := key{userID, productID}
	item, ok := s.items[k]
	if !ok {
		return store.ErrNotFound
	}
	item.Quantity = quantity
	s.items[k] = item
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "DeleteItem"); err != nil {
		return err
	}
	delete(s.items, key{userID, productID})
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "DeleteAll"); err != nil {
		return err
	}
	for k := range s.items {
		if k.userID == userID {
			delete(s.items, k)
		}
	}
	return nil
}

func (s *Store) Close() {}
