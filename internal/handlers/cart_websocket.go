package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsPingInterval = 30 * time.Second

// checkOrigin n'accepte que la même origine ou les origines de
// CORS_ALLOW_ORIGINS : le cookie de session part avec toute poignée de
// main WebSocket, y compris depuis un site tiers. Sans en-tête Origin
// (client hors navigateur) la connexion passe, le jeton reste exigé.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.AllowOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	h.Log.Warn("🚫 Origine WebSocket refusée", zap.String("origin", origin))
	return false
}

// CartWebSocket pousse l'état du panier au client après chaque changement,
// y compris ceux venant d'un autre onglet ou d'une autre instance.
func (h *Handler) CartWebSocket(c *gin.Context) {
	m := h.managerOrAbort(c)
	if m == nil {
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Error("❌ Erreur upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, unsubscribe := m.Subscribe()
	defer unsubscribe()

	// Lecture en tâche de fond pour détecter la fermeture côté client.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(gin.H{"type": "connected", "message": "Synchronisation panier activée"}); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				// panier oublié : déconnexion de l'utilisateur
				_ = conn.WriteJSON(gin.H{"type": "signed_out"})
				return
			}
			snap.Items = h.Images.SignItems(c.Request.Context(), snap.Items)
			msg := cartJSON(snap)
			msg["type"] = "cart_updated"
			if err := conn.WriteJSON(msg); err != nil {
				h.Log.Warn("⚠️ Erreur envoi WebSocket", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
