package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationFilePattern matches {version}_{description}.sql.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`)

type migration struct {
	version  int
	name     string
	sql      string
	checksum string
}

// Migrate applies every embedded migration that is not yet recorded in schema_migrations.
// Each migration runs in its own transaction together with its version record.
func (p *Pool) Migrate(ctx context.Context) error {
	const versionTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			checksum TEXT NOT NULL,
			applied_at TEXT NOT NULL,
			execution_time_ms INTEGER NOT NULL
		)`
	if _, err := p.db.ExecContext(ctx, versionTable); err != nil {
		return fmt.Errorf("%w: create schema_migrations: %v", ErrMigration, err)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	applied, err := p.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if checksum, ok := applied[m.version]; ok {
			if checksum != m.checksum {
				return fmt.Errorf("%w: %s changed after it was applied", ErrMigration, m.name)
			}
			continue
		}
		started := time.Now()
		err := p.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range splitStatements(m.sql) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("%w: %s: %v", ErrMigration, m.name, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, checksum, applied_at, execution_time_ms) VALUES (?, ?, ?, ?, ?)`,
				m.version, m.name, m.checksum, time.Now().UTC().Format(time.RFC3339), time.Since(started).Milliseconds(),
			)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// appliedVersions maps every recorded version to its checksum.
func (p *Pool) appliedVersions(ctx context.Context) (map[int]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("%w: read schema_migrations: %v", ErrMigration, err)
	}
	defer rows.Close()

	applied := make(map[int]string)
	for rows.Next() {
		var (
			version  int
			checksum string
		)
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		applied[version] = checksum
	}
	return applied, rows.Err()
}

// loadMigrations reads the embedded migrations in version order.
func loadMigrations() ([]migration, error) {
	return scanMigrations(migrationFiles, "migrations")
}

func scanMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list migrations: %v", ErrMigration, err)
	}

	var migrations []migration
	seen := make(map[int]string)
	for _, entry := range entries {
		name := entry.Name()
		matches := migrationFilePattern.FindStringSubmatch(name)
		if entry.IsDir() || matches == nil {
			return nil, fmt.Errorf("%w: %q does not match {version}_{description}.sql", ErrMigration, name)
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("%w: version of %q: %v", ErrMigration, name, err)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("%w: version %d found in both %s and %s", ErrMigration, version, other, name)
		}
		seen[version] = name

		content, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrMigration, name, err)
		}
		sum := sha256.Sum256(content)
		migrations = append(migrations, migration{
			version:  version,
			name:     name,
			sql:      string(content),
			checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

// splitStatements splits a migration on semicolons. Migrations must not contain semicolons
// inside string literals or triggers.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(stmt, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}
