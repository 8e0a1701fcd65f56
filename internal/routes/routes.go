package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/auth"
	"shopeasy_storefront/internal/handlers"
	"shopeasy_storefront/internal/metrics"
	"shopeasy_storefront/internal/middleware"
)

// Options regroupe ce que le routage ajoute autour des handlers. Metrics,
// Gatherer et RateLimiter sont optionnels.
type Options struct {
	Issuer        *auth.Issuer
	Sessions      *auth.Sessions
	Metrics       *metrics.ServerMetrics
	Gatherer      prometheus.Gatherer
	RateLimiter   middleware.Counter
	CartRateLimit int
	AllowOrigins  []string
	DevLogin      bool
	Log           *zap.Logger
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	// CORS au niveau moteur pour que les pré-requêtes OPTIONS de /api
	// reçoivent leurs en-têtes.
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))
	r.Use(middleware.CurrentUser(opts.Issuer, opts.Sessions, opts.Log))

	limit := middleware.CartRateLimit(opts.RateLimiter, opts.CartRateLimit, opts.Log)
	formLimit := middleware.CartFormRateLimit(opts.RateLimiter, opts.CartRateLimit, opts.Log)

	r.GET("/healthz", handlers.Healthz)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(opts.Gatherer)))
	}

	// Pages
	r.GET("/", h.Landing)
	r.GET("/products", h.Catalog)
	r.GET("/cart", h.CartPage)

	// Formulaires panier
	forms := r.Group("/cart", formLimit)
	{
		forms.POST("/add/:productId", h.AddToCartForm)
		forms.POST("/update/:productId", h.UpdateQuantityForm)
		forms.POST("/remove/:productId", h.RemoveFromCartForm)
		forms.POST("/clear", h.ClearCartForm)
	}

	// Auth
	authGroup := r.Group("/auth")
	{
		authGroup.GET("", h.AuthPage)
		authGroup.POST("/signout", h.SignOut)
		if opts.DevLogin {
			authGroup.POST("/dev", h.DevSignIn)
		}
		authGroup.GET("/:provider", h.BeginAuth)
		authGroup.GET("/:provider/callback", h.CallbackAuth)
	}

	// API panier
	cartAPI := r.Group("/api/cart", middleware.AuthRequired())
	{
		cartAPI.GET("", h.GetCart)
		cartAPI.GET("/ws", h.CartWebSocket)
		cartAPI.POST("", limit, h.AddToCart)
		cartAPI.PUT("/:productId", limit, h.UpdateQuantity)
		cartAPI.DELETE("/:productId", limit, h.RemoveFromCart)
		cartAPI.DELETE("", limit, h.ClearCart)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
