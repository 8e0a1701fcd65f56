package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/config"
)

// --- Configuration ScyllaDB ---
type ScyllaKeyspaceConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	SSLEnabled  bool
	CACertPath  string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

type ScyllaManager struct {
	sessions map[string]*gocql.Session // keyspace → session
	configs  map[string]ScyllaKeyspaceConfig
	log      *zap.Logger
	mu       sync.RWMutex
}

// Connections regroupe les clients des services distants. Un client nil
// signifie que le service n'est pas configuré.
type Connections struct {
	Scylla   *ScyllaManager
	Postgres *pgxpool.Pool
	Redis    *redis.Client
	Elastic  *elasticsearch.Client
	MinIO    *minio.Client
}

// Connect ouvre les connexions requises par la configuration. Le backend
// de données choisi est obligatoire, les autres services sont optionnels.
func Connect(ctx context.Context, cfg config.Config, log *zap.Logger) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conns := &Connections{}

	// 1. Backend de données
	switch cfg.DataBackend {
	case config.BackendScylla:
		scylla, err := NewScyllaManager(cfg.Scylla, log)
		if err != nil {
			return nil, fmt.Errorf("échec initialisation ScyllaDB: %w", err)
		}
		conns.Scylla = scylla
	case config.BackendPostgres:
		pool, err := connectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Postgres = pool
		log.Info("✅ Connecté à Postgres")
	case config.BackendMemory:
		log.Warn("⚠️ DATA_BACKEND=memory : catalogue de démonstration en mémoire")
	default:
		return nil, fmt.Errorf("DATA_BACKEND inconnu: %q", cfg.DataBackend)
	}

	// 2. Redis
	if cfg.Redis.Host != "" {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Redis = client
		log.Info("✅ Connecté à Redis")
	}

	// 3. Elasticsearch
	if cfg.Elastic.URL != "" {
		client, err := connectElastic(cfg.Elastic)
		if err != nil {
			// la recherche retombe sur le filtrage local
			log.Warn("⚠️ Elasticsearch indisponible", zap.Error(err))
		} else {
			conns.Elastic = client
			log.Info("✅ Connecté à Elasticsearch")
		}
	}

	// 4. MinIO
	if cfg.MinIO.Endpoint != "" {
		client, err := connectMinIO(ctx, cfg.MinIO, log)
		if err != nil {
			log.Warn("⚠️ MinIO indisponible, images servies telles quelles", zap.Error(err))
		} else {
			conns.MinIO = client
		}
	}

	return conns, nil
}

func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

// =============================================
// SCYLLA DB (keyspaces produits et paniers)
// =============================================

// NewScyllaManager prépare une session par keyspace configuré.
func NewScyllaManager(cfg config.ScyllaConfig, log *zap.Logger) (*ScyllaManager, error) {
	sm := &ScyllaManager{
		sessions: make(map[string]*gocql.Session),
		configs:  loadScyllaConfigs(cfg),
		log:      log,
	}
	if cfg.ProductsKeyspace == "" || cfg.CartsKeyspace == "" {
		return nil, fmt.Errorf("SCYLLA_KS_PRODUCTS_KEYSPACE et SCYLLA_KS_CARTS_KEYSPACE sont requis")
	}

	for keyspace := range sm.configs {
		if _, err := sm.GetSession(keyspace); err != nil {
			sm.Close()
			return nil, fmt.Errorf("échec initialisation keyspace %s: %w", keyspace, err)
		}
	}

	// Note: les tables sont créées par store/scylla.EnsureSchema en dev,
	// par les scripts CQL en production.
	return sm, nil
}

func loadScyllaConfigs(cfg config.ScyllaConfig) map[string]ScyllaKeyspaceConfig {
	configs := make(map[string]ScyllaKeyspaceConfig)

	timeout := 5 * time.Second
	numConns := 20
	consistency := gocql.Quorum

	if ks := cfg.ProductsKeyspace; ks != "" {
		configs[ks] = ScyllaKeyspaceConfig{
			Hosts:       cfg.Hosts,
			Keyspace:    ks,
			Username:    cfg.ProductsRole,
			Password:    cfg.ProductsPassword,
			SSLEnabled:  cfg.SSLEnabled,
			CACertPath:  cfg.CACertPath,
			Timeout:     timeout,
			NumConns:    numConns,
			Consistency: consistency,
		}
	}

	if ks := cfg.CartsKeyspace; ks != "" {
		configs[ks] = ScyllaKeyspaceConfig{
			Hosts:       cfg.Hosts,
			Keyspace:    ks,
			Username:    cfg.CartsRole,
			Password:    cfg.CartsPassword,
			SSLEnabled:  cfg.SSLEnabled,
			CACertPath:  cfg.CACertPath,
			Timeout:     timeout,
			NumConns:    numConns,
			Consistency: consistency,
		}
	}

	return configs
}

func createScyllaCluster(config ScyllaKeyspaceConfig) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(config.Hosts...)
	cluster.Keyspace = config.Keyspace
	cluster.Consistency = config.Consistency
	cluster.Timeout = config.Timeout
	cluster.NumConns = config.NumConns

	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	if config.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	if config.SSLEnabled && config.CACertPath != "" {
		caCert, err := os.ReadFile(config.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("impossible de lire le certificat CA: %w", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("impossible de parser le certificat CA")
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config: &tls.Config{RootCAs: caCertPool, MinVersion: tls.VersionTLS12},
		}
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	return cluster, nil
}

// GetSession retourne la session d'un keyspace. La session en cache est
// réutilisée tant qu'elle n'est pas fermée ; gocql gère lui-même la
// reconnexion aux nœuds.
func (sm *ScyllaManager) GetSession(keyspace string) (*gocql.Session, error) {
	sm.mu.RLock()
	session, ok := sm.sessions[keyspace]
	sm.mu.RUnlock()
	if ok && !session.Closed() {
		return session, nil
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	config, exists := sm.configs[keyspace]
	if !exists {
		return nil, fmt.Errorf("keyspace '%s' non configuré", keyspace)
	}

	// un autre appel a pu recréer la session entre-temps
	if session, ok := sm.sessions[keyspace]; ok && !session.Closed() {
		return session, nil
	}

	cluster, err := createScyllaCluster(config)
	if err != nil {
		return nil, fmt.Errorf("erreur configuration cluster pour %s: %w", keyspace, err)
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", keyspace, err)
	}

	sm.sessions[keyspace] = session
	sm.log.Info("✅ Nouvelle session ScyllaDB",
		zap.String("keyspace", keyspace), zap.String("role", config.Username))

	return session, nil
}

// Close ferme toutes les sessions ScyllaDB
func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for keyspace, session := range sm.sessions {
		session.Close()
		sm.log.Info("🔌 Session ScyllaDB fermée", zap.String("keyspace", keyspace))
	}
	sm.sessions = make(map[string]*gocql.Session)
}

// =============================================
// POSTGRES
// =============================================
func connectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL non configuré")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("erreur création pool Postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("erreur connexion Postgres: %w", err)
	}
	return pool, nil
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("erreur Elasticsearch: %s", res.Status())
	}

	return client, nil
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context, cfg config.MinIOConfig, log *zap.Logger) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur connexion MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("erreur vérification bucket MinIO: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket MinIO %q absent", cfg.Bucket)
	}

	log.Info("✅ Connecté à MinIO", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket))
	return client, nil
}
