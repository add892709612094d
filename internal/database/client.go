// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"modernc.org/sqlite"
)

// Supported dialects
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// SQLiteLowerFunc is a LOWER that folds non-ASCII letters too. The builtin
// sqlite LOWER only folds ASCII.
const SQLiteLowerFunc = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(SQLiteLowerFunc, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", SQLiteLowerFunc, err))
	}
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	}
	return args[0], nil
}

// Config describes how to reach the books database
type Config struct {
	Type           string
	Host           string
	Port           int
	Username       string
	Password       string
	Database       string
	SSLMode        string
	ConnectTimeout int
	// Path is the sqlite file, or ":memory:"
	Path string

	MaxOpenConnections int
	MaxIdleConnections int
	MaxLifetime        time.Duration
}

// Client wraps sqlx.DB and remembers which SQL dialect it speaks
type Client struct {
	db      *sqlx.DB
	dialect string
}

// NewClient opens and pings a connection pool for cfg.Type
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	var (
		driver  string
		connStr string
	)
	switch cfg.Type {
	case DialectPostgres:
		driver, connStr = "postgres", buildConnectionString(cfg)
	case DialectSQLite:
		driver, connStr = "sqlite", buildSQLitePath(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}

	db, err := sqlx.ConnectContext(ctx, driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}

	if cfg.Type == DialectSQLite {
		// every connection to ":memory:" is a separate database
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConnections > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConnections)
		}
		if cfg.MaxIdleConnections > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConnections)
		}
	}
	if cfg.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Type, err)
	}

	return &Client{db: db, dialect: cfg.Type}, nil
}

// NewInMemory opens a private in-memory sqlite database
func NewInMemory(ctx context.Context) (*Client, error) {
	return NewClient(ctx, &Config{Type: DialectSQLite, Path: ":memory:"})
}

func buildConnectionString(cfg *Config) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("host=%s", cfg.Host))
	parts = append(parts, fmt.Sprintf("port=%d", cfg.Port))
	parts = append(parts, fmt.Sprintf("dbname=%s", cfg.Database))

	if cfg.Username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	parts = append(parts, fmt.Sprintf("sslmode=%s", sslMode))

	if cfg.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", cfg.ConnectTimeout))
	}

	return strings.Join(parts, " ")
}

func buildSQLitePath(path string) string {
	if path == "" || path == ":memory:" {
		return ":memory:"
	}
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// DB returns the underlying *sqlx.DB connection
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Dialect returns DialectPostgres or DialectSQLite
func (c *Client) Dialect() string {
	return c.dialect
}

// Ping tests the database connection
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// BeginTxx starts a new transaction with the given context
func (c *Client) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return c.db.BeginTxx(ctx, opts)
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// HealthCheck performs a health check on the database connection
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}
