package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qolzam/bookcatalog/internal/cache"
	"github.com/qolzam/bookcatalog/internal/database"
)

func TestLoadFromMap(t *testing.T) {
	t.Parallel()

	t.Run("Loads all provided values correctly", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFromMap(map[string]string{
			"JWT_PUBLIC_KEY":             "test-public-key",
			"JWT_ISSUER":                 "bookcatalog",
			"JWT_AUDIENCE":               "bookcatalog-api",
			"DB_TYPE":                    "postgres",
			"POSTGRES_HOST":              "test-host",
			"POSTGRES_PORT":              "5433",
			"POSTGRES_USERNAME":          "test-user",
			"POSTGRES_PASSWORD":          "test-pass",
			"POSTGRES_DATABASE":          "test-db",
			"POSTGRES_MAX_OPEN_CONNS":    "55",
			"POSTGRES_CONN_MAX_LIFETIME": "321",
			"SERVER_PORT":                "9090",
			"DEBUG":                      "true",
			"CACHE_TTL":                  "30m",
			"CACHE_BACKEND":              "redis",
			"REDIS_ADDRESS":              "redis:6380",
		})
		require.NoError(t, err)

		require.Equal(t, "test-public-key", cfg.JWT.PublicKey)
		require.Equal(t, "bookcatalog", cfg.JWT.Issuer)
		require.Equal(t, "bookcatalog-api", cfg.JWT.Audience)
		require.Equal(t, "postgres", cfg.Database.Type)
		require.Equal(t, "test-host", cfg.Database.Postgres.Host)
		require.Equal(t, 5433, cfg.Database.Postgres.Port)
		require.Equal(t, "test-user", cfg.Database.Postgres.Username)
		require.Equal(t, "test-pass", cfg.Database.Postgres.Password)
		require.Equal(t, "test-db", cfg.Database.Postgres.Database)
		require.Equal(t, 55, cfg.Database.Postgres.MaxOpenConns)
		require.Equal(t, 321*time.Second, cfg.Database.Postgres.ConnMaxLifetime)
		require.Equal(t, 9090, cfg.Server.Port)
		require.True(t, cfg.Server.Debug)
		require.Equal(t, 30*time.Minute, cfg.Cache.TTL)
		require.Equal(t, "redis", cfg.Cache.Backend)
		require.Equal(t, "redis:6380", cfg.Cache.Redis.Address)
	})

	t.Run("Applies defaults for missing values", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFromMap(map[string]string{"JWT_PUBLIC_KEY": "k"})
		require.NoError(t, err)

		require.Equal(t, 8080, cfg.Server.Port)
		require.False(t, cfg.Server.Debug)
		require.Equal(t, database.DialectSQLite, cfg.Database.Type)
		require.Equal(t, "books.db", cfg.Database.SQLite.Path)
		require.True(t, cfg.Cache.Enabled)
		require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		require.Equal(t, "books:", cfg.Cache.Prefix)
		require.Equal(t, "localhost:8080", cfg.Address())
	})

	t.Run("Ignores malformed numbers", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFromMap(map[string]string{
			"JWT_PUBLIC_KEY": "k",
			"SERVER_PORT":    "eighty",
			"CACHE_TTL":      "soon",
		})
		require.NoError(t, err)
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing public key", map[string]string{}, "JWT_PUBLIC_KEY is required"},
		{"unknown database", map[string]string{"JWT_PUBLIC_KEY": "k", "DB_TYPE": "mongodb"}, "DB_TYPE must be one of"},
		{"unknown cache backend", map[string]string{"JWT_PUBLIC_KEY": "k", "CACHE_BACKEND": "memcached"}, "CACHE_BACKEND must be one of"},
		{"empty sqlite path", map[string]string{"JWT_PUBLIC_KEY": "k", "SQLITE_PATH": ""}, "SQLITE_PATH is required"},
		{"port out of range", map[string]string{"JWT_PUBLIC_KEY": "k", "SERVER_PORT": "70000"}, "SERVER_PORT must be between"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFromMap(tc.env)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConversions(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromMap(map[string]string{
		"JWT_PUBLIC_KEY":     "k",
		"DB_TYPE":            "postgres",
		"POSTGRES_HOST":      "db",
		"POSTGRES_SSL_MODE":  "require",
		"SQLITE_PATH":        ":memory:",
		"CACHE_ENABLED":      "false",
		"CACHE_PREFIX":       "catalog",
		"REDIS_POOL_SIZE":    "4",
		"CACHE_MAX_MEMORY":   "1024",
		"REDIS_MAX_CONN_AGE": "60",
	})
	require.NoError(t, err)

	db := cfg.DatabaseClientConfig()
	require.Equal(t, database.DialectPostgres, db.Type)
	require.Equal(t, "db", db.Host)
	require.Equal(t, "require", db.SSLMode)
	require.Equal(t, ":memory:", db.Path)
	require.Equal(t, 25, db.MaxOpenConnections)

	cc := cfg.CacheServiceConfig()
	require.False(t, cc.Enabled)
	require.Equal(t, "catalog", cc.Prefix)
	require.Equal(t, cache.CacheTypeMemory, cc.Backend)
	require.Equal(t, int64(1024), cc.MaxMemory)
	require.Equal(t, 4, cc.Redis.PoolSize)
	require.Equal(t, time.Minute, cc.Redis.MaxConnAge)
}
