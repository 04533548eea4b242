package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, config Config) (*DB, error) {
	connString := config.ConnectionString()
	pgPool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to database, Error: %w", err)
	}

	return &DB{
		Pool: pgPool,
	}, nil
}

// NewWithBackoff retries the initial connection, doubling the wait between
// attempts. Useful when the database container is still starting.
func NewWithBackoff(ctx context.Context, config Config, maxAttempts int) (*DB, error) {
	var lastErr error

	for i := 0; i < maxAttempts; i++ {
		db, err := New(ctx, config)
		if err == nil {
			if err := db.Ping(ctx); err == nil {
				return db, nil
			} else {
				db.Close()
				lastErr = err
			}
		} else {
			lastErr = err
		}

		wait := time.Duration(1<<i) * time.Second
		log.Warn().Err(lastErr).Dur("retry_in", wait).Msg("Database connection failed")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.Pool.Ping(ctx); err != nil {
		return err
	}

	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
