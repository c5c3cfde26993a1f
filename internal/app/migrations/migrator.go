package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var migrationFS embed.FS

const migrationDir = "sql"

// Migrator applies the embedded goose migrations
type Migrator struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewMigrator opens a database/sql handle on top of the pool for goose
func NewMigrator(pool *pgxpool.Pool, logger zerolog.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	return &Migrator{db: stdlib.OpenDBFromPool(pool), logger: logger}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	m.logger.Info().Msg("Applying database migrations")
	if err := goose.UpContext(ctx, m.db, migrationDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}
	m.logger.Info().Int64("version", version).Msg("Migrations applied")
	return nil
}

// Close closes the database/sql handle; the pool stays open
func (m *Migrator) Close() error {
	return m.db.Close()
}
