package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/promptforge/internal/retry"
)

const pingTimeout = 5 * time.Second

var ErrNoDatabaseURL = errors.New("database url is not configured")

type pinger interface {
	PingContext(ctx context.Context) error
}

// NewDB opens a Postgres connection and verifies it with a ping. The ping is
// retried so the server can start alongside a database that is still booting.
func NewDB(ctx context.Context, dbURL string) (*sql.DB, error) {
	dbURL = strings.TrimSpace(dbURL)
	if dbURL == "" {
		return nil, ErrNoDatabaseURL
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	cfg := retry.DefaultRetryConfig()
	cfg.Retryable = retry.IsRetryableError
	if err := ping(ctx, db, cfg); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return db, nil
}

func ping(ctx context.Context, db pinger, cfg retry.RetryConfig) error {
	logger := log.With().Str("component", "database").Logger()
	result := retry.RetryWithBackoff(ctx, cfg, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}, &logger)
	if !result.Success {
		return result.LastError
	}
	return nil
}
