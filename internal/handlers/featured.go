package handlers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/store"
)

// featuredTimeout borne la lecture partagée, qui ne dépend plus de la
// requête HTTP qui l'a lancée.
const featuredTimeout = 30 * time.Second

// featured partage une seule lecture des produits vedettes entre les
// visites concurrentes et garde le dernier résultat obtenu, pour que la
// page rafraîchie affiche la grille même si la lecture suivante traîne.
type featured struct {
	group singleflight.Group

	mu       sync.Mutex
	last     []models.Product
	resolved bool
}

func (f *featured) fetch(products store.ProductStore) <-chan singleflight.Result {
	return f.group.DoChan("recent", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), featuredTimeout)
		defer cancel()

		list, err := products.ListRecent(ctx, store.MaxFeatured)

		// une erreur compte comme résolue : grille vide plutôt que
		// chargement sans fin
		f.mu.Lock()
		f.last = list
		if err != nil {
			f.last = nil
		}
		f.resolved = true
		f.mu.Unlock()

		return list, err
	})
}

func (f *featured) latest() ([]models.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.resolved
}
