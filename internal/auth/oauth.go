package auth

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/config"
)

// InitProviders enregistre les providers OAuth configurés auprès de goth et
// renvoie leurs noms, dans l'ordre d'affichage de la page /auth.
func InitProviders(cfg config.Config, store sessions.Store, log *zap.Logger) []string {
	gothic.Store = store

	// Le provider vient du paramètre de route :provider, recopié en query
	// par les handlers.
	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := req.FormValue("provider"); provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	var providers []goth.Provider
	var names []string

	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		providers = append(providers, google.New(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			cfg.BaseURL+"/auth/google/callback",
			"email",
		))
		names = append(names, "google")
		log.Info("✅ Google OAuth activé")
	}

	if cfg.OAuth.FacebookClientID != "" && cfg.OAuth.FacebookClientSecret != "" {
		providers = append(providers, facebook.New(
			cfg.OAuth.FacebookClientID,
			cfg.OAuth.FacebookClientSecret,
			cfg.BaseURL+"/auth/facebook/callback",
			"email",
		))
		names = append(names, "facebook")
		log.Info("✅ Facebook OAuth activé")
	}

	if len(providers) == 0 {
		log.Warn("⚠️ Aucun provider OAuth configuré")
		return nil
	}

	goth.UseProviders(providers...)
	return names
}
