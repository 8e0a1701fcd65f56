package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/auth"
	"shopeasy_storefront/internal/cart"
	"shopeasy_storefront/internal/middleware"
	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/services"
	"shopeasy_storefront/internal/store"
	"shopeasy_storefront/internal/views"
)

// Deps regroupe ce dont les handlers ont besoin. Search et Images peuvent
// être nil quand Elasticsearch ou MinIO ne sont pas configurés.
type Deps struct {
	Products    store.ProductStore
	Carts       *cart.Registry
	Search      *services.ProductSearch
	Images      *services.ImageSigner
	Issuer      *auth.Issuer
	Sessions    *auth.Sessions
	Providers   []string
	DevLogin    bool
	LandingWait time.Duration
	// AllowOrigins : origines admises en plus de la même origine pour la
	// WebSocket panier.
	AllowOrigins []string
	Log          *zap.Logger
}

type Handler struct {
	Deps
	featured featured
}

func New(d Deps) *Handler {
	if d.LandingWait <= 0 {
		d.LandingWait = 2 * time.Second
	}
	return &Handler{Deps: d}
}

// manager renvoie le panier de l'utilisateur courant, nil si personne
// n'est connecté.
func (h *Handler) manager(c *gin.Context) *cart.Manager {
	user := middleware.User(c)
	if !user.SignedIn() {
		return nil
	}
	m, err := h.Carts.For(user.ID)
	if err != nil {
		return nil
	}
	return m
}

// snapshot renvoie l'état du panier courant ; vide pour un visiteur. Un
// panier dont le chargement initial a échoué est relu une fois par requête.
func (h *Handler) snapshot(c *gin.Context) models.CartSnapshot {
	m := h.manager(c)
	if m == nil {
		return models.CartSnapshot{}
	}
	snap := m.Snapshot()
	if !snap.Loaded && !snap.Loading {
		// erreur déjà journalisée par le manager
		_ = m.Refresh(c.Request.Context())
		snap = m.Snapshot()
	}
	snap.Items = h.Images.SignItems(c.Request.Context(), snap.Items)
	return snap
}

func (h *Handler) nav(c *gin.Context, snap models.CartSnapshot) views.Nav {
	return views.Nav{
		User:      middleware.User(c),
		CartCount: snap.Count(),
		DevLogin:  h.DevLogin,
		Notice:    views.NoticeText(c.Query("notice")),
	}
}

// render écrit une page HTML complète.
func (h *Handler) render(c *gin.Context, name string, snap models.CartSnapshot, page any, refresh bool) {
	c.HTML(http.StatusOK, name, views.Document{
		Nav:     h.nav(c, snap),
		Page:    page,
		Refresh: refresh,
	})
}

// backTo renvoie la page d'origine d'un formulaire, limitée aux chemins
// locaux.
func backTo(c *gin.Context, fallback string) string {
	return middleware.LocalReferer(c, fallback)
}
