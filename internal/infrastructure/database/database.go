package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
)

// Connection wraps the pooled database handle.
// sqlx.DB is already safe for concurrent use; no extra locking is added.
// Queries are written with '?' placeholders and rebound for the active driver.
type Connection struct {
	db *sqlx.DB
}

var tlsOnce sync.Once // mysql TLS config may only be registered once per process

// Open connects using the configured driver and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Connection, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// MaxIdleConns matches MaxOpenConns so connections are reused instead of
	// being closed and reopened under load.
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{db: db}, nil
}

// NewFromDB wraps an existing handle, e.g. a sqlmock connection in tests.
func NewFromDB(db *sql.DB, driverName string) *Connection {
	return &Connection{db: sqlx.NewDb(db, driverName)}
}

func buildDSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case "postgres":
		if cfg.URL == "" {
			return "", fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		return cfg.URL, nil
	case "mysql":
		if cfg.URL != "" {
			return cfg.URL, nil
		}
		tlsParam := ""
		if cfg.Host != "" && cfg.Host != "127.0.0.1" && cfg.Host != "localhost" {
			var regErr error
			tlsOnce.Do(func() {
				regErr = mysql.RegisterTLSConfig("remote", &tls.Config{
					MinVersion: tls.VersionTLS12,
					ServerName: cfg.Host,
				})
			})
			if regErr != nil {
				return "", fmt.Errorf("failed to register TLS config: %w", regErr)
			}
			tlsParam = "&tls=remote"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, tlsParam), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// DB returns the underlying sqlx handle.
func (c *Connection) DB() *sqlx.DB {
	return c.db
}

// Rebind converts '?' placeholders into the driver's bindvar style.
func (c *Connection) Rebind(query string) string {
	return c.db.Rebind(query)
}

// Ping verifies the database is reachable.
func (c *Connection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.db.Close()
}
