package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	Embedding EmbeddingConfig
	Matching  MatchingConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Queue     QueueConfig
	Storage   StorageConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
}

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

type CatalogConfig struct {
	Source            string
	SkillOntologyPath string
	RoleCatalogPath   string
	CourseCatalogPath string
	Strict            bool
}

type EmbeddingConfig struct {
	Provider      string
	Model         string
	Dimensions    int
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GoogleAPIKey  string
	GeminiBaseURL string
	CacheTTL      time.Duration
}

type MatchingConfig struct {
	MatchLimit  int
	BridgeLimit int
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	SessionTTL time.Duration
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
}

type QueueConfig struct {
	RabbitMQURL     string
	AnalysisQueue   string
	SessionExchange string
	WorkerCount     int
}

type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != "" && d.DBUser != ""
}

func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogLevel:    opt("LOG_LEVEL", "info"),
	}

	cfg.Catalog = CatalogConfig{
		Source:            strings.ToLower(opt("CATALOG_SOURCE", CatalogSourceFile)),
		SkillOntologyPath: opt("SKILL_ONTOLOGY_PATH", "data/skill_ontology.json"),
		RoleCatalogPath:   opt("ROLE_CATALOG_PATH", "data/role_catalog.json"),
		CourseCatalogPath: opt("COURSE_CATALOG_PATH", "data/course_catalog.json"),
		Strict:            optBool("CATALOG_STRICT", true),
	}
	if cfg.Catalog.Source != CatalogSourceFile && cfg.Catalog.Source != CatalogSourcePostgres {
		invalid = append(invalid, "CATALOG_SOURCE")
	}

	cfg.Embedding = EmbeddingConfig{
		Provider:      strings.ToLower(opt("EMBEDDING_PROVIDER", "hash")),
		Model:         opt("EMBEDDING_MODEL", ""),
		Dimensions:    optInt("EMBEDDING_DIMENSIONS", 0),
		OpenAIAPIKey:  opt("OPENAI_API_KEY", ""),
		OpenAIBaseURL: opt("OPENAI_BASE_URL", "https://api.openai.com"),
		GoogleAPIKey:  opt("GOOGLE_API_KEY", ""),
		GeminiBaseURL: opt("GEMINI_BASE_URL", ""),
		CacheTTL:      optDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),
	}
	if cfg.Embedding.Dimensions < 0 {
		invalid = append(invalid, "EMBEDDING_DIMENSIONS")
	}

	cfg.Matching = MatchingConfig{
		MatchLimit:  optInt("MATCH_LIMIT", 5),
		BridgeLimit: optInt("BRIDGE_LIMIT", 5),
	}

	cfg.Redis = RedisConfig{
		Host:       opt("REDIS_HOST", ""),
		Port:       opt("REDIS_PORT", "6379"),
		Password:   opt("REDIS_PASSWORD", ""),
		SessionTTL: optDuration("SESSION_TTL", 2*time.Hour),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST", ""),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         opt("DB_NAME", ""),
		DBUser:         opt("DB_USER", ""),
		DBPassword:     opt("DB_PASSWORD", ""),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS", 0)),
	}
	if cfg.Catalog.Source == CatalogSourcePostgres && !cfg.Database.Enabled() {
		missing = append(missing, "DB_HOST", "DB_NAME", "DB_USER")
	}

	cfg.Queue = QueueConfig{
		RabbitMQURL:     opt("RABBITMQ_URL", ""),
		AnalysisQueue:   opt("ANALYSIS_QUEUE", "analysis_requests"),
		SessionExchange: opt("SESSION_EXCHANGE", "session_updates"),
		WorkerCount:     optInt("WORKER_COUNT", 3),
	}

	cfg.Storage = StorageConfig{
		Endpoint:  opt("S3_ENDPOINT", ""),
		Region:    opt("S3_REGION", "auto"),
		Bucket:    opt("S3_BUCKET", ""),
		AccessKey: opt("S3_ACCESS_KEY", ""),
		SecretKey: opt("S3_SECRET_KEY", ""),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
