package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/auth"
	"shopeasy_storefront/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	if u := User(c); u != nil {
		c.String(http.StatusOK, u.ID)
		return
	}
	c.String(http.StatusOK, "anonymous")
}

func TestCurrentUser(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	sessions := auth.NewSessions(auth.NewCookieStore("0123456789abcdef0123456789abcdef", false))

	r := gin.New()
	r.Use(CurrentUser(issuer, sessions, zap.NewNop()))
	r.GET("/me", whoami)
	r.GET("/api/me", AuthRequired(), whoami)

	token, err := issuer.Issue(models.User{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		code   int
		body   string
	}{
		{"anonymous page", "/me", "", http.StatusOK, "anonymous"},
		{"bearer", "/me", "Bearer " + token, http.StatusOK, "u1"},
		{"bad token is anonymous", "/me", "Bearer nope", http.StatusOK, "anonymous"},
		{"api requires user", "/api/me", "", http.StatusUnauthorized, ""},
		{"api with user", "/api/me", "Bearer " + token, http.StatusOK, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

type fakeCounter struct {
	n   int64
	err error
}

func (f *fakeCounter) Increment(context.Context, string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.n++
	return f.n, nil
}

func TestCartRateLimit(t *testing.T) {
	counter := &fakeCounter{}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ctxUserID, "u1") })
	r.POST("/cart", CartRateLimit(counter, 2, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	counter.err = errors.New("redis down")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCartFormRateLimit(t *testing.T) {
	counter := &fakeCounter{n: 2}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ctxUserID, "u1") })
	r.POST("/cart/add", CartFormRateLimit(counter, 2, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/cart/add", nil)
	req.Header.Set("Referer", "http://example.com/cart?notice=rate_limited")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart?notice=rate_limited", rec.Header().Get("Location"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.NotContains(t, rec.Body.String(), "retry_after")
}

func TestLocalReferer(t *testing.T) {
	cases := []struct {
		referer string
		want    string
	}{
		{"", "/cart"},
		{"http://example.com/products?category=books", "/products?category=books"},
		{"http://example.com/products?category=books&notice=rate_limited", "/products?category=books"},
		{"https://evil.example.org/phish", "/cart"},
		{"//evil.example.org/phish", "/cart"},
		{"/", "/"},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/cart/add", nil)
		if tc.referer != "" {
			c.Request.Header.Set("Referer", tc.referer)
		}
		assert.Equal(t, tc.want, LocalReferer(c, "/cart"), tc.referer)
	}
	assert.Equal(t, "/?notice=rate_limited", WithNotice("/", NoticeRateLimited))
}
