package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/auth"
	"shopeasy_storefront/internal/models"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
)

// CurrentUser place user_id et email dans le contexte gin quand un jeton
// valide est présent (header Bearer ou cookie de session). L'absence
// d'utilisateur n'est pas une erreur.
func CurrentUser(issuer *auth.Issuer, sessions *auth.Sessions, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = sessions.Token(c.Request)
		}
		if token == "" {
			c.Next()
			return
		}

		user, err := issuer.Parse(token)
		if err != nil {
			log.Debug("🔐 Jeton ignoré", zap.Error(err))
			c.Next()
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxEmail, user.Email)
		c.Next()
	}
}

// AuthRequired refuse les appels API sans utilisateur.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserID) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// User renvoie l'utilisateur courant, nil si personne n'est connecté.
func User(c *gin.Context) *models.User {
	id := c.GetString(ctxUserID)
	if id == "" {
		return nil
	}
	return &models.User{ID: id, Email: c.GetString(ctxEmail)}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
