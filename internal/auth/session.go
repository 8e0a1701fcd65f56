package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "shopeasy_session"
	tokenKey    = "token"
)

// NewCookieStore configure le store de session partagé par gothic et la
// vitrine.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Sessions range le jeton de l'utilisateur dans un cookie de session.
type Sessions struct {
	store sessions.Store
}

func NewSessions(store sessions.Store) *Sessions {
	return &Sessions{store: store}
}

func (s *Sessions) Token(r *http.Request) string {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[tokenKey].(string)
	return token
}

func (s *Sessions) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[tokenKey] = token
	return session.Save(r, w)
}

func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, tokenKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
