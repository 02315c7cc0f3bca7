// Package db manages board database schemas and connections.
//
// Migrations are goose-annotated SQL files embedded per dialect under
// internal/db/migrations. RunPostgresMigrations and RunSQLiteMigrations apply
// all pending migrations on startup.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/db/migrations"
	"github.com/persistorai/graphboard/internal/dbpool"
)

// RunPostgresMigrations applies pending PostgreSQL migrations using the
// pool's connection string.
func RunPostgresMigrations(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger) error {
	// goose requires a *sql.DB, so open one through the pgx stdlib driver.
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	return runMigrations(ctx, sqlDB, goose.DialectPostgres, migrations.Postgres(), log)
}

// RunSQLiteMigrations applies pending SQLite migrations to an open database.
func RunSQLiteMigrations(ctx context.Context, sqlDB *sql.DB, log *logrus.Logger) error {
	return runMigrations(ctx, sqlDB, goose.DialectSQLite3, migrations.SQLite(), log)
}

func runMigrations(ctx context.Context, sqlDB *sql.DB, dialect goose.Dialect, fsys fs.FS, log *logrus.Logger) error {
	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"dialect":  dialect,
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.WithFields(logrus.Fields{
			"dialect":        dialect,
			"schema_version": SchemaVersion(),
		}).Debug("all migrations already applied")
	}

	return nil
}
