package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/middleware"
	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/services"
	"shopeasy_storefront/internal/store"
	"shopeasy_storefront/internal/views"
)

const searchSize = 100

// Landing affiche la page d'accueil avec les produits les plus récents.
// Si la requête ne répond pas à temps, la page part avec le dernier
// résultat connu, ou à défaut avec l'indicateur de chargement et un
// rafraîchissement automatique. La lecture continue en arrière-plan.
func (h *Handler) Landing(c *gin.Context) {
	done := h.featured.fetch(h.Products)

	snap := h.snapshot(c)
	user := middleware.User(c)

	timer := time.NewTimer(h.LandingWait)
	defer timer.Stop()

	select {
	case res := <-done:
		products, _ := res.Val.([]models.Product)
		if res.Err != nil {
			h.Log.Error("❌ Erreur chargement produits vedettes", zap.Error(res.Err))
			products = nil
		}
		h.renderLanding(c, snap, user, products)
	case <-timer.C:
		if products, ok := h.featured.latest(); ok {
			h.renderLanding(c, snap, user, products)
			return
		}
		h.Log.Warn("⚠️ Produits vedettes encore en chargement", zap.Duration("wait", h.LandingWait))
		h.render(c, "landing.html", snap, views.NewLandingPage(user, nil, snap, true), true)
	}
}

func (h *Handler) renderLanding(c *gin.Context, snap models.CartSnapshot, user *models.User, products []models.Product) {
	products = h.Images.SignProducts(c.Request.Context(), products)
	h.render(c, "landing.html", snap, views.NewLandingPage(user, products, snap, false), false)
}

// Catalog liste le catalogue, filtré par catégorie et recherche texte.
func (h *Handler) Catalog(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Query("q")
	category := models.Category(c.Query("category"))

	products, err := h.Products.ListAll(ctx, category)
	if err != nil {
		h.Log.Error("❌ Erreur chargement catalogue", zap.Error(err))
		products = nil
	}
	if query != "" {
		products = h.search(ctx, products, query, category)
	}
	products = h.Images.SignProducts(ctx, products)

	snap := h.snapshot(c)
	h.render(c, "products.html", snap, views.NewCatalogPage(middleware.User(c), query, category, products, snap), false)
}

// search passe par Elasticsearch quand il est configuré, sinon filtre la
// liste en mémoire. L'ordre des résultats Elastic est conservé.
func (h *Handler) search(ctx context.Context, products []models.Product, query string, category models.Category) []models.Product {
	ids, err := h.Search.SearchIDs(ctx, query, category, searchSize)
	if err != nil {
		if !errors.Is(err, services.ErrSearchUnavailable) {
			h.Log.Warn("⚠️ Recherche Elastic indisponible, filtrage local", zap.Error(err))
		}
		return services.FilterLocal(products, query)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
