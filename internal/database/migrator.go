package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type execQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DefaultMigrationsDir is where the server looks for migration scripts.
// They are read from disk at startup rather than embedded, so schema
// changes ship without recompiling.
const DefaultMigrationsDir = "migrations"

// Migrator applies the SQL scripts of a directory in filename order and
// records each applied script in schema_migrations, so reruns are no-ops.
type Migrator struct {
	pool execQuerier
	dir  string
}

func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool, dir: DefaultMigrationsDir}
}

// RunMigrations applies every .sql script under the migrations directory
// that has not been applied yet. Scripts run in filename order; a failing
// script aborts the run and leaves the tracking table untouched for it.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Println("[DB] Running migrations...")

	if err := m.createTrackingTable(ctx); err != nil {
		return fmt.Errorf("no se pudo crear la tabla de migraciones: %w", err)
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("no se pudieron leer las migraciones aplicadas: %w", err)
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("no se pudo leer el directorio de migraciones: %w", err)
	}

	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") || applied[name] {
			continue
		}
		pending = append(pending, name)
	}
	sort.Strings(pending)

	for _, name := range pending {
		content, err := os.ReadFile(filepath.Join(m.dir, name))
		if err != nil {
			return fmt.Errorf("no se pudo leer la migración %s: %w", name, err)
		}

		log.Printf("[DB] Applying %s", name)
		if _, err := m.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("falló la migración %s: %w", name, err)
		}
		if err := m.record(ctx, name); err != nil {
			return fmt.Errorf("no se pudo registrar la migración %s: %w", name, err)
		}
	}

	if len(pending) == 0 {
		log.Println("[DB] Schema up to date")
	} else {
		log.Printf("[DB] Applied %d migration(s)", len(pending))
	}
	return nil
}

func (m *Migrator) createTrackingTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (m *Migrator) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) record(ctx context.Context, filename string) error {
	_, err := m.pool.Exec(ctx, `
		INSERT INTO schema_migrations (filename)
		VALUES ($1)
		ON CONFLICT (filename) DO NOTHING
	`, filename)
	return err
}
