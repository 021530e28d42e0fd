// Package migrations applies the embedded schema to PostgreSQL and ClickHouse.
// Applied files are recorded in a schema_migrations table in each database
// and are not executed again.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

// PostgresFS embeds all PostgreSQL migration files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds all ClickHouse migration files.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

// Migration is one embedded SQL file.
type Migration struct {
	Name string
	SQL  string
}

// load returns the non-empty .sql files under dir in name order.
func load(fsys fs.FS, dir string) ([]Migration, error) {
	paths, err := fs.Glob(fsys, dir+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list %s migrations: %w", dir, err)
	}

	var out []Migration
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", path, err)
		}
		sql := strings.TrimSpace(string(data))
		if sql == "" {
			continue
		}
		out = append(out, Migration{Name: strings.TrimPrefix(path, dir+"/"), SQL: sql})
	}
	return out, nil
}

// pending filters out migrations already recorded as applied.
func pending(all []Migration, applied map[string]bool) []Migration {
	var out []Migration
	for _, m := range all {
		if !applied[m.Name] {
			out = append(out, m)
		}
	}
	return out
}
