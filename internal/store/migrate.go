package store

import (
	"context"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

type migration struct {
	version string
	sql     string
}

// migrationFiles returns the .sql files of one dialect directory in
// version order. Lexicographic order of the file names is version order.
func migrationFiles(dialect string) ([]migration, error) {
	dir := path.Join("migrations", dialect)
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var out []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := migrationsFS.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		out = append(out, migration{version: entry.Name(), sql: string(data)})
	}
	return out, nil
}

// RunMigrations applies pending Postgres migrations in order.
// Migrations are tracked in a schema_migrations table.
// There are no down migrations; fix forward only.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	files, err := migrationFiles(DriverPostgres)
	if err != nil {
		return err
	}

	for _, m := range files {
		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			m.version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking migration %s: %w", m.version, err)
		}
		if exists {
			continue
		}

		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("applying migration %s: %w", m.version, err)
		}

		if _, err := pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)",
			m.version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", m.version, err)
		}
	}

	return nil
}

// runSQLiteMigrations is RunMigrations for the SQLite dialect. Each
// migration and its bookkeeping row commit in one transaction.
func runSQLiteMigrations(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	files, err := migrationFiles(DriverSQLite)
	if err != nil {
		return err
	}

	for _, m := range files {
		var n int
		if err := db.GetContext(ctx, &n,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version,
		); err != nil {
			return fmt.Errorf("checking migration %s: %w", m.version, err)
		}
		if n > 0 {
			continue
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES (?)", m.version,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", m.version, err)
		}
	}

	return nil
}
