package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/cart"
	"shopeasy_storefront/internal/middleware"
	"shopeasy_storefront/internal/views"
)

// CartPage affiche le panier et le récapitulatif de commande.
func (h *Handler) CartPage(c *gin.Context) {
	snap := h.snapshot(c)
	page := views.NewCartPage(middleware.User(c), snap)
	h.render(c, "cart.html", snap, page, page.IsLoading())
}

// --- Formulaires des cartes produit et de la page panier ---
//
// Les erreurs sont journalisées par le Manager ; la page est simplement
// réaffichée avec l'état du panier relu.

func (h *Handler) AddToCartForm(c *gin.Context) {
	m := h.manager(c)
	if m == nil {
		c.Redirect(http.StatusSeeOther, "/auth")
		return
	}
	if err := m.AddToCart(c.Request.Context(), c.Param("productId"), 1); err != nil {
		h.Log.Debug("🛒 Ajout refusé", zap.String("product_id", c.Param("productId")), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, backTo(c, "/"))
}

func (h *Handler) UpdateQuantityForm(c *gin.Context) {
	m := h.manager(c)
	if m == nil {
		c.Redirect(http.StatusSeeOther, "/auth")
		return
	}
	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, backTo(c, "/cart"))
		return
	}
	if err := m.UpdateQuantity(c.Request.Context(), c.Param("productId"), quantity); err != nil {
		h.Log.Debug("🛒 Mise à jour refusée", zap.String("product_id", c.Param("productId")), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, backTo(c, "/cart"))
}

func (h *Handler) RemoveFromCartForm(c *gin.Context) {
	m := h.manager(c)
	if m == nil {
		c.Redirect(http.StatusSeeOther, "/auth")
		return
	}
	_ = m.RemoveFromCart(c.Request.Context(), c.Param("productId"))
	c.Redirect(http.StatusSeeOther, backTo(c, "/cart"))
}

func (h *Handler) ClearCartForm(c *gin.Context) {
	m := h.manager(c)
	if m == nil {
		c.Redirect(http.StatusSeeOther, "/auth")
		return
	}
	_ = m.ClearCart(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/cart")
}

// managerOrAbort est la variante API de manager : 401 sans utilisateur.
func (h *Handler) managerOrAbort(c *gin.Context) *cart.Manager {
	m := h.manager(c)
	if m == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
	}
	return m
}
