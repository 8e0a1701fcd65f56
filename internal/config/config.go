package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendScylla   = "scylla"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type ScyllaConfig struct {
	Hosts            []string
	ProductsKeyspace string
	ProductsRole     string
	ProductsPassword string
	CartsKeyspace    string
	CartsRole        string
	CartsPassword    string
	SSLEnabled       bool
	CACertPath       string
}

type RedisConfig struct {
	Host     string
	Password string
}

type ElasticConfig struct {
	URL      string
	User     string
	Password string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

type KafkaConfig struct {
	Brokers   []string
	CartTopic string
}

type OAuthConfig struct {
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
}

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string
	BaseURL  string

	// Origines autorisées sur /api ; vide = toutes.
	AllowOrigins []string

	JWTSecret     string
	SessionSecret string
	TokenTTL      time.Duration

	DataBackend string
	DatabaseURL string

	Scylla  ScyllaConfig
	Redis   RedisConfig
	Elastic ElasticConfig
	MinIO   MinIOConfig
	Kafka   KafkaConfig
	OAuth   OAuthConfig

	// Attente maximale du fetch de la page d'accueil avant d'afficher
	// l'indicateur de chargement.
	LandingFetchWait time.Duration
	// Ajouts/modifs panier par minute et par utilisateur, 0 = illimité.
	CartRateLimit int
	// Durée après laquelle un panier non consulté est oublié en mémoire,
	// 0 = jamais.
	CartIdleTTL time.Duration
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// Load charge .env puis construit la configuration depuis l'environnement.
func Load() Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv lit uniquement l'environnement courant.
func FromEnv() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),

		AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		TokenTTL:      getEnvDuration("TOKEN_TTL", 24*time.Hour),

		DataBackend: strings.ToLower(getEnv("DATA_BACKEND", BackendMemory)),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		Scylla: ScyllaConfig{
			Hosts:            getEnvList("SCYLLA_HOSTS"),
			ProductsKeyspace: os.Getenv("SCYLLA_KS_PRODUCTS_KEYSPACE"),
			ProductsRole:     os.Getenv("SCYLLA_KS_PRODUCTS_ROLE"),
			ProductsPassword: os.Getenv("SCYLLA_KS_PRODUCTS_PASSWORD"),
			CartsKeyspace:    os.Getenv("SCYLLA_KS_CARTS_KEYSPACE"),
			CartsRole:        os.Getenv("SCYLLA_KS_CARTS_ROLE"),
			CartsPassword:    os.Getenv("SCYLLA_KS_CARTS_PASSWORD"),
			SSLEnabled:       strings.ToLower(os.Getenv("SCYLLA_SSL_ENABLED")) == "true",
			CACertPath:       os.Getenv("SCYLLA_SSL_CA_PATH"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "shopeasy-images"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
			URLExpiry: getEnvDuration("MINIO_URL_EXPIRY", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:   getEnvList("KAFKA_BROKERS"),
			CartTopic: getEnv("KAFKA_CART_TOPIC", "storefront.cart"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
			FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
			FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
		},

		LandingFetchWait: getEnvDuration("LANDING_FETCH_WAIT", 2*time.Second),
		CartRateLimit:    getEnvInt("CART_RATE_LIMIT", 20),
		CartIdleTTL:      getEnvDuration("CART_IDLE_TTL", 30*time.Minute),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
