package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/qolzam/bookcatalog/internal/cache"
	"github.com/qolzam/bookcatalog/internal/database"
)

// Config is the service configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	JWT      JWTConfig      `json:"jwt"`
	Cache    CacheConfig    `json:"cache"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	BaseRoute string `json:"baseRoute"`
	Debug     bool   `json:"debug"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Type     string           `json:"type"`
	Postgres PostgreSQLConfig `json:"postgres"`
	SQLite   SQLiteConfig     `json:"sqlite"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration
type PostgreSQLConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	SSLMode         string        `json:"sslMode"`
	ConnectTimeout  int           `json:"connectTimeout"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is a file path or ":memory:"
	Path string `json:"path"`
}

// JWTConfig holds the token verification settings
type JWTConfig struct {
	PublicKey string `json:"publicKey"`
	Issuer    string `json:"issuer"`
	Audience  string `json:"audience"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	MaxMemory       int64         `json:"maxMemory"`
	TTL             time.Duration `json:"ttl"`
	Enabled         bool          `json:"enabled"`
	Backend         string        `json:"backend"`
	Prefix          string        `json:"prefix"`
	CleanupInterval time.Duration `json:"cleanupInterval"`
	Redis           RedisConfig   `json:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address      string        `json:"address"`
	Password     string        `json:"password"`
	Database     int           `json:"database"`
	PoolSize     int           `json:"poolSize"`
	MinIdleConns int           `json:"minIdleConns"`
	MaxConnAge   time.Duration `json:"maxConnAge"`
}

// LoadFromEnv loads configuration from the environment.
// Explicit environment variables win over values from a .env file,
// which win over the defaults.
func LoadFromEnv() (*Config, error) {
	envPaths := []string{".env", "../.env", "../../.env"}

	var loadErr error
	for _, envPath := range envPaths {
		if loadErr = godotenv.Load(envPath); loadErr == nil {
			break
		}
	}
	if loadErr != nil {
		fmt.Println("INFO: .env file not found, using environment variables and defaults.")
	}

	return load(func(key string) (string, bool) {
		value := os.Getenv(key)
		return value, value != ""
	})
}

// LoadFromMap loads configuration from an in-memory map without touching
// the process environment.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	return load(func(key string) (string, bool) {
		value, ok := envMap[key]
		return value, ok
	})
}

type lookupFunc func(key string) (string, bool)

func load(lookup lookupFunc) (*Config, error) {
	env := getter{lookup: lookup}

	config := &Config{
		Server: ServerConfig{
			Host:      env.get("HOST", "localhost"),
			Port:      env.getInt("SERVER_PORT", 8080),
			BaseRoute: env.get("BASE_ROUTE", ""),
			Debug:     env.getBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Type: env.get("DB_TYPE", database.DialectSQLite),
			Postgres: PostgreSQLConfig{
				Host:            env.get("POSTGRES_HOST", "localhost"),
				Port:            env.getInt("POSTGRES_PORT", 5432),
				Username:        env.get("POSTGRES_USERNAME", ""),
				Password:        env.get("POSTGRES_PASSWORD", ""),
				Database:        env.get("POSTGRES_DATABASE", "bookcatalog"),
				SSLMode:         env.get("POSTGRES_SSL_MODE", "disable"),
				ConnectTimeout:  env.getInt("POSTGRES_CONNECT_TIMEOUT", 10),
				MaxOpenConns:    env.getInt("POSTGRES_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    env.getInt("POSTGRES_MAX_IDLE_CONNS", 25),
				ConnMaxLifetime: time.Duration(env.getInt("POSTGRES_CONN_MAX_LIFETIME", 300)) * time.Second,
			},
			SQLite: SQLiteConfig{
				Path: env.get("SQLITE_PATH", "books.db"),
			},
		},
		JWT: JWTConfig{
			PublicKey: env.get("JWT_PUBLIC_KEY", ""),
			Issuer:    env.get("JWT_ISSUER", ""),
			Audience:  env.get("JWT_AUDIENCE", ""),
		},
		Cache: CacheConfig{
			MaxMemory:       env.getInt64("CACHE_MAX_MEMORY", 64*1024*1024),
			TTL:             env.getDuration("CACHE_TTL", 5*time.Minute),
			Enabled:         env.getBool("CACHE_ENABLED", true),
			Backend:         env.get("CACHE_BACKEND", string(cache.CacheTypeMemory)),
			Prefix:          env.get("CACHE_PREFIX", "books:"),
			CleanupInterval: env.getDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
			Redis: RedisConfig{
				Address:      env.get("REDIS_ADDRESS", "localhost:6379"),
				Password:     env.get("REDIS_PASSWORD", ""),
				Database:     env.getInt("REDIS_DATABASE", 0),
				PoolSize:     env.getInt("REDIS_POOL_SIZE", 10),
				MinIdleConns: env.getInt("REDIS_MIN_IDLE_CONNS", 2),
				MaxConnAge:   time.Duration(env.getInt("REDIS_MAX_CONN_AGE", 1800)) * time.Second,
			},
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.JWT.PublicKey) == "" {
		errors = append(errors, "JWT_PUBLIC_KEY is required")
	}

	switch c.Database.Type {
	case database.DialectPostgres:
		if strings.TrimSpace(c.Database.Postgres.Host) == "" {
			errors = append(errors, "POSTGRES_HOST is required")
		}
	case database.DialectSQLite:
		if strings.TrimSpace(c.Database.SQLite.Path) == "" {
			errors = append(errors, "SQLITE_PATH is required")
		}
	default:
		errors = append(errors, fmt.Sprintf("DB_TYPE must be one of: %s, %s", database.DialectPostgres, database.DialectSQLite))
	}

	if !cache.CacheType(c.Cache.Backend).IsValid() {
		errors = append(errors, fmt.Sprintf("CACHE_BACKEND must be one of: %s, %s", cache.CacheTypeMemory, cache.CacheTypeRedis))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// DatabaseClientConfig converts the database section for database.NewClient
func (c *Config) DatabaseClientConfig() *database.Config {
	pg := c.Database.Postgres
	return &database.Config{
		Type:               c.Database.Type,
		Host:               pg.Host,
		Port:               pg.Port,
		Username:           pg.Username,
		Password:           pg.Password,
		Database:           pg.Database,
		SSLMode:            pg.SSLMode,
		ConnectTimeout:     pg.ConnectTimeout,
		Path:               c.Database.SQLite.Path,
		MaxOpenConnections: pg.MaxOpenConns,
		MaxIdleConnections: pg.MaxIdleConns,
		MaxLifetime:        pg.ConnMaxLifetime,
	}
}

// CacheServiceConfig converts the cache section for the cache package
func (c *Config) CacheServiceConfig() *cache.CacheConfig {
	return &cache.CacheConfig{
		Enabled:         c.Cache.Enabled,
		TTL:             c.Cache.TTL,
		Prefix:          c.Cache.Prefix,
		Backend:         cache.CacheType(c.Cache.Backend),
		MaxMemory:       c.Cache.MaxMemory,
		CleanupInterval: c.Cache.CleanupInterval,
		Redis: cache.RedisConfig{
			Address:      c.Cache.Redis.Address,
			Password:     c.Cache.Redis.Password,
			Database:     c.Cache.Redis.Database,
			PoolSize:     c.Cache.Redis.PoolSize,
			MinIdleConns: c.Cache.Redis.MinIdleConns,
			MaxConnAge:   c.Cache.Redis.MaxConnAge,
		},
	}
}

// Address is the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

type getter struct {
	lookup lookupFunc
}

func (g getter) get(key, defaultValue string) string {
	if value, ok := g.lookup(key); ok {
		return value
	}
	return defaultValue
}

func (g getter) getInt(key string, defaultValue int) int {
	if value, ok := g.lookup(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (g getter) getInt64(key string, defaultValue int64) int64 {
	if value, ok := g.lookup(key); ok {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (g getter) getBool(key string, defaultValue bool) bool {
	if value, ok := g.lookup(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (g getter) getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := g.lookup(key); ok {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
