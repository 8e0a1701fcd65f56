package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"shopeasy_storefront/internal/cart"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewServerMetrics(reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/products/1", "/products/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/products/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("unmatched", "404")))
}

func TestCartHook(t *testing.T) {
	m := NewServerMetrics(prometheus.NewRegistry())
	hook := m.CartHook()
	hook(context.Background(), cart.Mutation{Op: cart.OpAdd})
	hook(context.Background(), cart.Mutation{Op: cart.OpAdd})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CartMutations.WithLabelValues("add")))
}
