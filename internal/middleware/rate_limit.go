package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Counter est la partie du limiteur Redis utilisée ici.
type Counter interface {
	Increment(ctx context.Context, key string) (int64, error)
}

// ttlCounter est implémenté par les compteurs capables de donner le temps
// restant avant remise à zéro.
type ttlCounter interface {
	TTL(ctx context.Context, key string) time.Duration
}

// NoticeRateLimited est le code de notice ajouté à la redirection d'un
// formulaire refusé par le limiteur.
const NoticeRateLimited = "rate_limited"

// CartRateLimit limite les écritures panier par utilisateur (anti-spam) et
// répond 429 en JSON. Une panne du compteur laisse passer la requête.
func CartRateLimit(counter Counter, max int, log *zap.Logger) gin.HandlerFunc {
	return rateLimit(counter, max, log, func(c *gin.Context, retryAfter int) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "Trop de modifications du panier. Ralentissez un peu",
			"retry_after": retryAfter,
		})
	})
}

// CartFormRateLimit applique la même limite aux formulaires HTML : le
// navigateur est renvoyé (303) vers la page d'origine avec une notice.
func CartFormRateLimit(counter Counter, max int, log *zap.Logger) gin.HandlerFunc {
	return rateLimit(counter, max, log, func(c *gin.Context, retryAfter int) {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.Redirect(http.StatusSeeOther, WithNotice(LocalReferer(c, "/cart"), NoticeRateLimited))
		c.Abort()
	})
}

func rateLimit(counter Counter, max int, log *zap.Logger, reject func(c *gin.Context, retryAfter int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)
		if counter == nil || max <= 0 || userID == "" {
			c.Next()
			return
		}

		key := "cart_write:" + userID
		requests, err := counter.Increment(c.Request.Context(), key)
		if err != nil {
			log.Warn("⚠️ Compteur rate limit indisponible", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", max))
		if requests > int64(max) {
			retryAfter := 60
			if tc, ok := counter.(ttlCounter); ok {
				retryAfter = int(tc.TTL(c.Request.Context(), key).Seconds())
			}
			c.Header("X-RateLimit-Remaining", "0")
			log.Warn("🚫 Limite d'écritures panier atteinte", zap.String("user_id", userID), zap.Int64("requests", requests))
			reject(c, retryAfter)
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int64(max)-requests))
		c.Next()
	}
}
