package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopeasy_storefront/internal/models"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	token, err := iss.Issue(models.User{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	user, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "a@b.c", user.Email)
}

func TestIssuer_Rejects(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	token, err := iss.Issue(models.User{ID: "u1"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewIssuer("secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestUserIDFor_Stable(t *testing.T) {
	a := UserIDFor("dev", "Alice@Example.com")
	b := UserIDFor("dev", "alice@example.com")
	c := UserIDFor("google", "alice@example.com")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}

func TestSessions_Token(t *testing.T) {
	s := NewSessions(NewCookieStore("0123456789abcdef0123456789abcdef", false))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, s.SetToken(rec, req, "tok"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	assert.Equal(t, "tok", s.Token(next))
	assert.Equal(t, "", s.Token(httptest.NewRequest(http.MethodGet, "/", nil)))
}
