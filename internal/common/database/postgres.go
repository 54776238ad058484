// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"visa-eligibility-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// referenceConstantsDDL creates the table the reference-constant store reads.
// median_income is a JSON object keyed by household size with annual amounts.
const referenceConstantsDDL = `
CREATE TABLE IF NOT EXISTS reference_constants (
	year                INTEGER PRIMARY KEY,
	version             TEXT    NOT NULL,
	gni_per_capita      BIGINT  NOT NULL,
	minimum_hourly_wage BIGINT  NOT NULL,
	minimum_annual_wage BIGINT  NOT NULL,
	median_income       JSONB   NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the reference_constants table when it is missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, referenceConstantsDDL); err != nil {
		return fmt.Errorf("create reference_constants: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
