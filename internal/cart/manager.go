// Package cart maintient la projection en mémoire du panier d'un utilisateur
// connecté, synchronisée avec le service de données distant.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/store"
)

type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// Mutation décrit une écriture confirmée par le service distant.
type Mutation struct {
	UserID    string
	ProductID string
	Op        Op
	Quantity  int
}

// MutationHook est appelé après chaque écriture réussie.
type MutationHook func(ctx context.Context, m Mutation)

// Manager possède l'état du panier d'un utilisateur. Toute écriture passe
// par le service distant puis l'état local est relu depuis celui-ci ; en
// cas d'échec l'état précédent est conservé.
type Manager struct {
	userID   string
	products store.ProductStore
	carts    store.CartStore
	log      *zap.Logger
	hooks    []MutationHook

	mu      sync.Mutex
	items   []models.CartItem
	loading bool
	loaded  bool
	lastErr error
	subs    map[chan models.CartSnapshot]struct{}
}

func NewManager(userID string, products store.ProductStore, carts store.CartStore, log *zap.Logger, hooks ...MutationHook) *Manager {
	return &Manager{
		userID:   userID,
		products: products,
		carts:    carts,
		log:      log.With(zap.String("user_id", userID)),
		hooks:    hooks,
		subs:     make(map[chan models.CartSnapshot]struct{}),
	}
}

func (m *Manager) UserID() string {
	return m.userID
}

// Snapshot renvoie une copie de l'état courant.
func (m *Manager) Snapshot() models.CartSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() models.CartSnapshot {
	snap := models.CartSnapshot{
		UserID:  m.userID,
		Items:   append(make([]models.CartItem, 0, len(m.items)), m.items...),
		Loading: m.loading,
		Loaded:  m.loaded,
	}
	if m.lastErr != nil {
		snap.Err = m.lastErr.Error()
	}
	return snap
}

// TotalPrice est dérivé des lignes courantes.
func (m *Manager) TotalPrice() decimal.Decimal {
	return m.Snapshot().TotalPrice()
}

// Quantity renvoie la quantité en panier pour un produit, 0 si absent.
func (m *Manager) Quantity(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Load effectue le chargement initial ; Loading est vrai pendant l'appel
// tant qu'aucun chargement n'a abouti.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if !m.loaded {
		m.loading = true
	}
	m.publishLocked()
	m.mu.Unlock()

	return m.refresh(ctx)
}

// Refresh relit le panier sans repasser par l'état de chargement.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.refresh(ctx)
}

func (m *Manager) refresh(ctx context.Context) error {
	items, err := m.carts.ListItems(ctx, m.userID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.lastErr = err
		m.publishLocked()
		m.log.Error("❌ Erreur lecture panier", zap.Error(err))
		return fmt.Errorf("lecture panier: %w", err)
	}

	// Le dernier appel résolu l'emporte, quel que soit l'ordre d'émission.
	m.items = items
	m.loaded = true
	m.lastErr = nil
	m.publishLocked()
	return nil
}

// AddToCart crée la ligne du produit avec une quantité ramenée dans
// [1, stock]. La ligne ne doit pas déjà exister.
func (m *Manager) AddToCart(ctx context.Context, productID string, quantity int) error {
	if _, exists := m.localItem(productID); exists {
		m.log.Warn("⚠️ AddToCart sur un produit déjà en panier, utiliser UpdateQuantity",
			zap.String("product_id", productID))
		return ErrAlreadyInCart
	}

	product, err := m.products.GetProduct(ctx, productID)
	if err != nil {
		return m.fail("lecture produit", productID, err)
	}
	if !product.InStock() {
		return ErrOutOfStock
	}
	quantity = clamp(quantity, 1, product.StockQuantity)

	err = m.carts.CreateItem(ctx, models.CartItem{
		UserID:    m.userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if errors.Is(err, store.ErrConflict) {
		// vue locale en retard sur le service distant
		m.log.Warn("⚠️ Ligne déjà présente côté serveur", zap.String("product_id", productID))
		_ = m.refresh(ctx)
		return ErrAlreadyInCart
	}
	if err != nil {
		return m.fail("ajout au panier", productID, err)
	}

	return m.afterWrite(ctx, Mutation{UserID: m.userID, ProductID: productID, Op: OpAdd, Quantity: quantity})
}

// UpdateQuantity fixe la quantité d'une ligne. Une quantité <= 0 supprime
// la ligne ; au-delà du stock elle est ramenée au stock.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return m.RemoveFromCart(ctx, productID)
	}

	item, exists := m.localItem(productID)
	if !exists {
		// vue locale possiblement en retard (chargement raté, autre appareil)
		if err := m.refresh(ctx); err != nil {
			return err
		}
		if item, exists = m.localItem(productID); !exists {
			return ErrNotInCart
		}
	}

	quantity = clamp(quantity, 0, item.Product.StockQuantity)
	if quantity == 0 {
		return m.RemoveFromCart(ctx, productID)
	}
	if quantity == item.Quantity {
		return nil
	}

	if err := m.carts.UpdateQuantity(ctx, m.userID, productID, quantity); err != nil {
		return m.fail("mise à jour quantité", productID, err)
	}

	return m.afterWrite(ctx, Mutation{UserID: m.userID, ProductID: productID, Op: OpUpdate, Quantity: quantity})
}

// RemoveFromCart supprime la ligne ; sans effet si elle est déjà absente.
func (m *Manager) RemoveFromCart(ctx context.Context, productID string) error {
	if err := m.carts.DeleteItem(ctx, m.userID, productID); err != nil {
		return m.fail("suppression du panier", productID, err)
	}
	return m.afterWrite(ctx, Mutation{UserID: m.userID, ProductID: productID, Op: OpRemove})
}

// ClearCart supprime toutes les lignes de l'utilisateur.
func (m *Manager) ClearCart(ctx context.Context) error {
	if err := m.carts.DeleteAll(ctx, m.userID); err != nil {
		return m.fail("vidage du panier", "", err)
	}
	return m.afterWrite(ctx, Mutation{UserID: m.userID, Op: OpClear})
}

func (m *Manager) afterWrite(ctx context.Context, mut Mutation) error {
	for _, hook := range m.hooks {
		hook(ctx, mut)
	}
	return m.refresh(ctx)
}

// fail journalise l'échec d'un appel distant sans toucher aux lignes locales.
func (m *Manager) fail(action, productID string, err error) error {
	m.mu.Lock()
	m.lastErr = err
	m.publishLocked()
	m.mu.Unlock()

	m.log.Error("❌ Erreur "+action, zap.String("product_id", productID), zap.Error(err))
	return fmt.Errorf("%s: %w", action, err)
}

func (m *Manager) localItem(productID string) (models.CartItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return models.CartItem{}, false
}

// Subscribe renvoie un canal recevant le dernier état après chaque
// changement. Seul l'état le plus récent est gardé si le lecteur traîne.
func (m *Manager) Subscribe() (<-chan models.CartSnapshot, func()) {
	ch := make(chan models.CartSnapshot, 1)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.subs[ch]; ok {
				delete(m.subs, ch)
				close(ch)
			}
		})
	}
}

func (m *Manager) watched() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs) > 0
}

// closeSubscribers ferme tous les canaux (déconnexion).
func (m *Manager) closeSubscribers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.subs {
		delete(m.subs, ch)
		close(ch)
	}
}

func (m *Manager) publishLocked() {
	if len(m.subs) == 0 {
		return
	}
	snap := m.snapshotLocked()
	for ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
