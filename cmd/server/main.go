package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/auth"
	"shopeasy_storefront/internal/cache"
	"shopeasy_storefront/internal/cart"
	"shopeasy_storefront/internal/config"
	"shopeasy_storefront/internal/database"
	"shopeasy_storefront/internal/events"
	"shopeasy_storefront/internal/handlers"
	"shopeasy_storefront/internal/logger"
	"shopeasy_storefront/internal/metrics"
	"shopeasy_storefront/internal/middleware"
	"shopeasy_storefront/internal/routes"
	"shopeasy_storefront/internal/services"
	"shopeasy_storefront/internal/store"
	"shopeasy_storefront/internal/store/memstore"
	"shopeasy_storefront/internal/store/postgres"
	"shopeasy_storefront/internal/store/scylla"
	"shopeasy_storefront/internal/views"
)

const (
	devJWTSecret     = "dev-only-jwt-secret"
	devSessionSecret = "dev-only-session-secret-32-bytes!"
	shutdownTimeout  = 10 * time.Second
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{Service: "shopeasy", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		stdlog.Fatalf("❌ Impossible d'initialiser le logger : %v", err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("❌ Arrêt du serveur", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := checkSecrets(&cfg, log); err != nil {
		return err
	}

	conns, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer conns.Close()

	st, err := openStore(ctx, cfg, conns, log)
	if err != nil {
		return err
	}
	defer st.Close()

	// --- Hooks des écritures panier ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg)

	hooks := []cart.MutationHook{serverMetrics.CartHook()}

	var bus *cache.CartBus
	var limiter middleware.Counter
	if conns.Redis != nil {
		bus = cache.NewCartBus(conns.Redis, log)
		hooks = append(hooks, bus.Hook())
		limiter = cache.NewRateLimiter(conns.Redis, time.Minute)
	} else {
		log.Warn("⚠️ Redis non configuré : pas de synchronisation multi-instance ni de rate limit")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.CartTopic, log), log)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Warn("⚠️ Fermeture writer Kafka", zap.Error(err))
			}
		}()
		hooks = append(hooks, publisher.Hook())
		log.Info("✅ Événements panier publiés sur Kafka", zap.String("topic", cfg.Kafka.CartTopic))
	}

	registry := cart.NewRegistry(st, log, hooks...)
	defer registry.Close()
	registry.StartEviction(cfg.CartIdleTTL, time.Minute)

	if bus != nil {
		go func() {
			if err := bus.Run(ctx, registry.Refresh); err != nil {
				log.Error("❌ Bus panier Redis arrêté", zap.Error(err))
			}
		}()
	}

	// --- Recherche et images ---
	search := services.NewProductSearch(conns.Elastic, log)
	if search.Enabled() {
		go indexCatalog(ctx, st, search, log)
	}
	images := services.NewImageSigner(conns.MinIO, cfg.MinIO.Bucket, cfg.MinIO.URLExpiry, log)

	// --- Auth ---
	cookieStore := auth.NewCookieStore(cfg.SessionSecret, !cfg.IsDev())
	providers := auth.InitProviders(cfg, cookieStore, log)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	sessions := auth.NewSessions(cookieStore)

	// --- HTTP ---
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	tmpl, err := views.Templates()
	if err != nil {
		return fmt.Errorf("chargement des gabarits: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	h := handlers.New(handlers.Deps{
		Products:     st,
		Carts:        registry,
		Search:       search,
		Images:       images,
		Issuer:       issuer,
		Sessions:     sessions,
		Providers:    providers,
		DevLogin:     cfg.IsDev(),
		LandingWait:  cfg.LandingFetchWait,
		AllowOrigins: cfg.AllowOrigins,
		Log:          log,
	})
	routes.RegisterRoutes(r, h, routes.Options{
		Issuer:        issuer,
		Sessions:      sessions,
		Metrics:       serverMetrics,
		Gatherer:      reg,
		RateLimiter:   limiter,
		CartRateLimit: cfg.CartRateLimit,
		AllowOrigins:  cfg.AllowOrigins,
		DevLogin:      cfg.IsDev(),
		Log:           log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Serveur ShopEasy lancé", zap.String("port", cfg.Port), zap.String("backend", cfg.DataBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 Arrêt en cours...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// checkSecrets exige les secrets hors dev ; en dev des valeurs fixes sont
// utilisées à défaut.
func checkSecrets(cfg *config.Config, log *zap.Logger) error {
	if cfg.JWTSecret != "" && cfg.SessionSecret != "" {
		return nil
	}
	if !cfg.IsDev() {
		return errors.New("JWT_SECRET et SESSION_SECRET sont requis hors dev")
	}
	log.Warn("⚠️ Secrets manquants, valeurs de développement utilisées")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = devSessionSecret
	}
	return nil
}

// openStore choisit l'implémentation du service de données. En dev le
// schéma est créé au besoin.
func openStore(ctx context.Context, cfg config.Config, conns *database.Connections, log *zap.Logger) (store.Store, error) {
	switch cfg.DataBackend {
	case config.BackendScylla:
		st := scylla.New(conns.Scylla, cfg.Scylla.ProductsKeyspace, cfg.Scylla.CartsKeyspace)
		if cfg.IsDev() {
			if err := st.EnsureSchema(); err != nil {
				return nil, fmt.Errorf("schéma ScyllaDB: %w", err)
			}
		}
		return st, nil
	case config.BackendPostgres:
		st := postgres.New(conns.Postgres)
		if cfg.IsDev() {
			if err := st.EnsureSchema(ctx); err != nil {
				return nil, fmt.Errorf("schéma Postgres: %w", err)
			}
		}
		return st, nil
	default:
		log.Info("🧪 Catalogue de démonstration chargé")
		return memstore.New(memstore.DemoCatalog(time.Now())...), nil
	}
}

// indexCatalog pousse le catalogue dans Elasticsearch au démarrage.
func indexCatalog(ctx context.Context, products store.ProductStore, search *services.ProductSearch, log *zap.Logger) {
	all, err := products.ListAll(ctx, "")
	if err != nil {
		log.Warn("⚠️ Lecture catalogue pour indexation", zap.Error(err))
		return
	}
	if err := search.IndexProducts(ctx, all); err != nil {
		log.Warn("⚠️ Indexation Elasticsearch échouée", zap.Error(err))
	}
}
