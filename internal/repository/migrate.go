package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations
var migrationFS embed.FS

// schemaExecutor is the minimal surface the migration runner needs from a
// dialect-specific connection.
type schemaExecutor interface {
	exec(ctx context.Context, query string, args ...any) error
	exists(ctx context.Context, query string, args ...any) (bool, error)
}

type migrationQueries struct {
	createTable string
	isApplied   string
	record      string
}

var dialectQueries = map[string]migrationQueries{
	DialectPostgres: {
		createTable: `CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		isApplied: "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)",
		record:    "INSERT INTO schema_migrations (name) VALUES ($1)",
	},
	DialectSQLite: {
		createTable: `CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		isApplied: "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=?)",
		record:    "INSERT INTO schema_migrations (name) VALUES (?)",
	},
}

// collectUpFiles は .up.sql ファイル名をソート済みで返す
func collectUpFiles(dialect string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, path.Join("migrations", dialect))
	if err != nil {
		return nil, fmt.Errorf("read migrations for %s: %w", dialect, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func pendingMigrations(ctx context.Context, ex schemaExecutor, dialect string) ([]string, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStore, dialect)
	}
	if err := ex.exec(ctx, q.createTable); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}
	files, err := collectUpFiles(dialect)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, filename := range files {
		name := strings.TrimSuffix(filename, ".up.sql")
		applied, err := ex.exists(ctx, q.isApplied, name)
		if err != nil {
			return nil, fmt.Errorf("check migration %s: %w", name, err)
		}
		if !applied {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// runMigrations は未適用のマイグレーションをファイル名順に適用する
func runMigrations(ctx context.Context, ex schemaExecutor, dialect string) (int, error) {
	pending, err := pendingMigrations(ctx, ex, dialect)
	if err != nil {
		return 0, err
	}
	q := dialectQueries[dialect]
	for i, name := range pending {
		sql, err := migrationFS.ReadFile(path.Join("migrations", dialect, name+".up.sql"))
		if err != nil {
			return i, fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := ex.exec(ctx, string(sql)); err != nil {
			return i, fmt.Errorf("migration %s: %w", name, err)
		}
		if err := ex.exec(ctx, q.record, name); err != nil {
			return i, fmt.Errorf("record migration %s: %w", name, err)
		}
		slog.Info("migration completed", "dialect", dialect, "migration", name)
	}
	return len(pending), nil
}
