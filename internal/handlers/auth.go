package handlers

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/auth"
	"shopeasy_storefront/internal/middleware"
	"shopeasy_storefront/internal/models"
	"shopeasy_storefront/internal/views"
)

const devProvider = "dev"

// AuthPage affiche les moyens de connexion disponibles.
func (h *Handler) AuthPage(c *gin.Context) {
	if middleware.User(c).SignedIn() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render(c, "auth.html", models.CartSnapshot{}, views.AuthPage{
		Providers: h.Providers,
		Error:     c.Query("error"),
	}, false)
}

// signIn émet le jeton de session et lance le chargement du panier.
func (h *Handler) signIn(c *gin.Context, user models.User) error {
	token, err := h.Issuer.Issue(user)
	if err != nil {
		return err
	}
	if err := h.Sessions.SetToken(c.Writer, c.Request, token); err != nil {
		return err
	}
	if _, err := h.Carts.For(user.ID); err != nil {
		return err
	}
	h.Log.Info("✅ Utilisateur connecté", zap.String("user_id", user.ID))
	return nil
}

// DevSignIn connecte un utilisateur à partir d'un simple email. Monté
// uniquement en APP_ENV=dev.
func (h *Handler) DevSignIn(c *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
	if _, err := mail.ParseAddress(email); err != nil {
		c.Redirect(http.StatusSeeOther, "/auth?error=Email+invalide")
		return
	}

	user := models.User{ID: auth.UserIDFor(devProvider, email), Email: email}
	if err := h.signIn(c, user); err != nil {
		h.Log.Error("❌ Erreur connexion dev", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/auth?error=Connexion+impossible")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// SignOut efface la session et oublie le panier local.
func (h *Handler) SignOut(c *gin.Context) {
	if user := middleware.User(c); user.SignedIn() {
		h.Carts.Discard(user.ID)
		h.Log.Info("👋 Utilisateur déconnecté", zap.String("user_id", user.ID))
	}
	if err := h.Sessions.Clear(c.Writer, c.Request); err != nil {
		h.Log.Warn("⚠️ Erreur suppression session", zap.Error(err))
	}
	_ = gothic.Logout(c.Writer, c.Request)
	c.Redirect(http.StatusSeeOther, "/")
}
