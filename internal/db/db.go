package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"redbus-search/internal/redbus"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// Querier is satisfied by *sql.DB, *sql.Conn and *Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn is a single connection checked out of the pool for one page render.
type Conn struct {
	c         *sql.Conn
	closeOnce sync.Once
}

// Connect checks out a dedicated connection and verifies it is alive.
// Any failure is reported as redbus.ErrConnection.
func Connect(ctx context.Context, pool *sql.DB) (*Conn, error) {
	if pool == nil {
		return nil, redbus.ConnectionError(sql.ErrConnDone)
	}
	c, err := pool.Conn(ctx)
	if err != nil {
		return nil, redbus.ConnectionError(err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.PingContext(pctx); err != nil {
		_ = c.Close()
		return nil, redbus.ConnectionError(err)
	}
	return &Conn{c: c}, nil
}

func (c *Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.c.QueryContext(ctx, query, args...)
}

// Close returns the connection to the pool. It is safe to call more than
// once; close errors are logged, never returned.
func (c *Conn) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		if err := c.c.Close(); err != nil {
			slog.Warn("error closing database connection", "error", err)
			return
		}
		slog.Debug("database connection closed")
	})
}
