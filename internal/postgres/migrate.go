package postgres

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one embedded schema file.
type Migration struct {
	Version string
	SQL     string
}

// Migrations returns the embedded migrations ordered by version.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not read embedded migrations").
			Mark(ierr.ErrSystem)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Could not read migration %s", entry.Name()).
				Mark(ierr.ErrSystem)
		}
		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(entry.Name(), ".sql"),
			SQL:     string(content),
		})
	}
	return migrations, nil
}

// Migrate applies pending migrations, each in its own transaction. An advisory lock keeps
// concurrent runs from interleaving.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `SELECT pg_advisory_lock(4729)`); err != nil {
		return nil, migrateError(err, "acquire advisory lock")
	}
	defer func() {
		if _, err := db.ExecContext(context.Background(), `SELECT pg_advisory_unlock(4729)`); err != nil {
			db.logger.Warnw("failed to release migration lock", "error", err)
		}
	}()

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, migrateError(err, "create schema_migrations")
	}

	var done []string
	if err := db.SelectContext(ctx, &done, `SELECT version FROM schema_migrations`); err != nil {
		return nil, migrateError(err, "list applied migrations")
	}
	applied := make(map[string]bool, len(done))
	for _, v := range done {
		applied[v] = true
	}

	var ran []string
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		db.logger.Infow("applying migration", "version", m.Version)

		err := db.WithTx(ctx, func(ctx context.Context) error {
			q := db.GetQuerier(ctx)
			if _, err := q.ExecContext(ctx, m.SQL); err != nil {
				return migrateError(err, "execute "+m.Version)
			}
			if _, err := q.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
				return migrateError(err, "record "+m.Version)
			}
			return nil
		})
		if err != nil {
			return ran, err
		}
		ran = append(ran, m.Version)
	}
	return ran, nil
}

func migrateError(err error, step string) error {
	return ierr.WithError(err).
		WithMessage("migration failed: " + step).
		WithHint("Database migration failed").
		Mark(ierr.ErrDatabase)
}
