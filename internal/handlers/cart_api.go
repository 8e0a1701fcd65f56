package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopeasy_storefront/internal/cart"
	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/store"
)

func cartJSON(snap models.CartSnapshot) gin.H {
	return gin.H{
		"items":   snap.Items,
		"total":   snap.TotalPrice().StringFixed(2),
		"count":   snap.Count(),
		"loading": snap.Loading,
	}
}

// cartError traduit une erreur du Manager en réponse JSON.
func cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Produit en rupture de stock"})
	case errors.Is(err, cart.ErrAlreadyInCart):
		c.JSON(http.StatusConflict, gin.H{"error": "Produit déjà dans le panier"})
	case errors.Is(err, cart.ErrNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit absent du panier"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur service panier"})
	}
}

// GetCart renvoie le panier ; le premier appel attend la lecture distante.
func (h *Handler) GetCart(c *gin.Context) {
	m := h.managerOrAbort(c)
	if m == nil {
		return
	}
	if !m.Snapshot().Loaded {
		if err := m.Refresh(c.Request.Context()); err != nil {
			cartError(c, err)
			return
		}
	}
	snap := m.Snapshot()
	snap.Items = h.Images.SignItems(c.Request.Context(), snap.Items)
	c.JSON(http.StatusOK, cartJSON(snap))
}

func (h *Handler) AddToCart(c *gin.Context) {
	m := h.managerOrAbort(c)
	if m == nil {
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := m.AddToCart(c.Request.Context(), input.ProductID, input.Quantity); err != nil {
		cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(m.Snapshot()))
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	m := h.managerOrAbort(c)
	if m == nil {
		return
	}

	var input struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := m.UpdateQuantity(c.Request.Context(), c.Param("productId"), *input.Quantity); err != nil {
		cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(m.Snapshot()))
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	m := h.managerOrAbort(c)
	if m == nil {
		return
	}
	if err := m.RemoveFromCart(c.Request.Context(), c.Param("productId")); err != nil {
		cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(m.Snapshot()))
}

func (h *Handler) ClearCart(c *gin.Context) {
	m := h.managerOrAbort(c)
	if m == nil {
		return
	}
	if err := m.ClearCart(c.Request.Context()); err != nil {
		cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(m.Snapshot()))
}
