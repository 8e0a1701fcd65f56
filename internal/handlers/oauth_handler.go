package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/auth"
	"shopeasy_storefront/internal/models"
)

// withProvider recopie le paramètre :provider en query pour gothic.
func withProvider(c *gin.Context) string {
	provider := c.Param("provider")
	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	return provider
}

func (h *Handler) knownProvider(name string) bool {
	for _, p := range h.Providers {
		if p == name {
			return true
		}
	}
	return false
}

func (h *Handler) BeginAuth(c *gin.Context) {
	provider := withProvider(c)
	if !h.knownProvider(provider) {
		c.Redirect(http.StatusSeeOther, "/auth?error=Provider+inconnu")
		return
	}
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func (h *Handler) CallbackAuth(c *gin.Context) {
	provider := withProvider(c)
	if !h.knownProvider(provider) {
		c.Redirect(http.StatusSeeOther, "/auth?error=Provider+inconnu")
		return
	}

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		h.Log.Warn("⚠️ Échec OAuth", zap.String("provider", provider), zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/auth?error=Connexion+refus%C3%A9e")
		return
	}

	user := models.User{
		ID:    auth.UserIDFor(provider, gothUser.UserID),
		Email: gothUser.Email,
	}
	if err := h.signIn(c, user); err != nil {
		h.Log.Error("❌ Erreur création session", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/auth?error=Connexion+impossible")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
