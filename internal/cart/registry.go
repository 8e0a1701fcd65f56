package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"shopeasy_storefront/internal/store"
)

// Registry détient un Manager par utilisateur connecté. Le panier est
// chargé à la connexion et oublié à la déconnexion, ou après une période
// d'inactivité si StartEviction est lancé.
type Registry struct {
	store store.Store
	log   *zap.Logger
	hooks []MutationHook

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	managers map[string]*Manager
	lastUsed map[string]time.Time
	now      func() time.Time
}

func NewRegistry(s store.Store, log *zap.Logger, hooks ...MutationHook) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		store:    s,
		log:      log,
		hooks:    hooks,
		ctx:      ctx,
		cancel:   cancel,
		managers: make(map[string]*Manager),
		lastUsed: make(map[string]time.Time),
		now:      time.Now,
	}
}

// For renvoie le Manager de l'utilisateur, en le créant et en lançant son
// chargement initial en arrière-plan si besoin.
func (r *Registry) For(userID string) (*Manager, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastUsed[userID] = r.now()
	if m, ok := r.managers[userID]; ok {
		return m, nil
	}

	m := NewManager(userID, r.store, r.store, r.log, r.hooks...)
	// Loading doit être visible dès le retour de For.
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
	r.managers[userID] = m

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = m.Load(r.ctx)
	}()
	return m, nil
}

// Lookup renvoie le Manager s'il existe déjà, sans le créer.
func (r *Registry) Lookup(userID string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[userID]
	return m, ok
}

// Discard oublie le panier local de l'utilisateur (déconnexion).
func (r *Registry) Discard(userID string) {
	r.mu.Lock()
	m, ok := r.managers[userID]
	delete(r.managers, userID)
	delete(r.lastUsed, userID)
	r.mu.Unlock()

	if ok {
		m.closeSubscribers()
	}
}

// EvictIdle oublie les paniers non demandés depuis plus de idle et sans
// abonné actif (websocket ouverte). Renvoie le nombre de paniers évincés.
func (r *Registry) EvictIdle(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var evicted []*Manager
	for userID, m := range r.managers {
		if r.lastUsed[userID].After(cutoff) || m.watched() {
			continue
		}
		delete(r.managers, userID)
		delete(r.lastUsed, userID)
		evicted = append(evicted, m)
	}
	r.mu.Unlock()

	for _, m := range evicted {
		m.closeSubscribers()
	}
	if len(evicted) > 0 {
		r.log.Info("🧹 Paniers inactifs évincés", zap.Int("count", len(evicted)), zap.Duration("idle", idle))
	}
	return len(evicted)
}

// StartEviction lance le balayage périodique des paniers inactifs,
// arrêté par Close. Sans effet si idle ou every est nul.
func (r *Registry) StartEviction(idle, every time.Duration) {
	if idle <= 0 || every <= 0 {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.EvictIdle(idle)
			}
		}
	}()
}

// Refresh relit le panier d'un utilisateur suite à une notification
// d'une autre instance ; ignoré si aucun Manager n'est actif.
func (r *Registry) Refresh(ctx context.Context, userID string) {
	m, ok := r.Lookup(userID)
	if !ok {
		return
	}
	if err := m.Refresh(ctx); err != nil {
		r.log.Warn("⚠️ Resynchronisation panier échouée", zap.String("user_id", userID), zap.Error(err))
	}
}

// Close annule les chargements en cours et attend leur fin.
func (r *Registry) Close() {
	r.cancel()
	r.wg.Wait()

	r.mu.Lock()
	managers := r.managers
	r.managers = make(map[string]*Manager)
	r.lastUsed = make(map[string]time.Time)
	r.mu.Unlock()

	for _, m := range managers {
		m.closeSubscribers()
	}
}
