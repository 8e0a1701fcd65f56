package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCheckOrigin(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no origin header", nil, "", true},
		{"same origin", nil, "http://shop.example.com", true},
		{"same origin ignores case", nil, "http://SHOP.example.com", true},
		{"cross origin without list", nil, "https://evil.example.org", false},
		{"cross origin listed", []string{"https://app.example.com/"}, "https://app.example.com", true},
		{"cross origin not listed", []string{"https://app.example.com"}, "https://evil.example.org", false},
		{"wildcard", []string{"*"}, "https://evil.example.org", true},
		{"malformed", nil, "::not a url", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(Deps{AllowOrigins: tc.allowed, Log: zap.NewNop()})
			r := httptest.NewRequest(http.MethodGet, "http://shop.example.com/api/cart/ws", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			assert.Equal(t, tc.want, h.checkOrigin(r))
		})
	}
}
