package migrations

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	chstore "solana-token-scanner/internal/storage/clickhouse"
)

const clickhouseLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
    name       String,
    applied_at DateTime DEFAULT now()
) ENGINE = ReplacingMergeTree
ORDER BY name`

var databaseName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// RunClickhouseMigrations creates the DSN's database if needed, applies
// embedded files missing from schema_migrations, and returns a connection to
// that database with the names of the files applied.
// The ClickHouse driver runs one statement per Exec, so each file holds one.
func RunClickhouseMigrations(ctx context.Context, dsn string) (*chstore.Conn, []string, error) {
	all, err := load(ClickhouseFS, "clickhouse")
	if err != nil {
		return nil, nil, err
	}
	if err := ensureDatabase(ctx, dsn); err != nil {
		return nil, nil, err
	}

	conn, err := chstore.NewConn(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect clickhouse db: %w", err)
	}

	names, err := applyClickhouse(ctx, conn, all)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, names, nil
}

func ensureDatabase(ctx context.Context, dsn string) error {
	db, err := databaseFromDSN(dsn)
	if err != nil {
		return err
	}

	admin, err := chstore.NewConnWithDatabase(ctx, dsn, "")
	if err != nil {
		return fmt.Errorf("connect clickhouse admin: %w", err)
	}
	defer admin.Close()

	if err := admin.Exec(ctx, "CREATE DATABASE IF NOT EXISTS `"+db+"`"); err != nil {
		return fmt.Errorf("create database %s: %w", db, err)
	}
	return nil
}

func applyClickhouse(ctx context.Context, conn *chstore.Conn, all []Migration) ([]string, error) {
	if err := conn.Exec(ctx, clickhouseLedger); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := conn.Query(ctx, "SELECT DISTINCT name FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}

	var names []string
	for _, m := range pending(all, applied) {
		stmt, err := statement(m)
		if err != nil {
			return names, err
		}
		if err := conn.Exec(ctx, stmt); err != nil {
			return names, fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		if err := conn.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES (?)", m.Name); err != nil {
			return names, fmt.Errorf("record migration %s: %w", m.Name, err)
		}
		names = append(names, m.Name)
	}
	return names, nil
}

// statement returns the single statement of a ClickHouse migration without
// its terminating semicolon.
func statement(m Migration) (string, error) {
	stmt := strings.TrimSpace(strings.TrimSuffix(m.SQL, ";"))
	if strings.Contains(stmt, ";") {
		return "", fmt.Errorf("migration %s: more than one statement", m.Name)
	}
	return stmt, nil
}

func databaseFromDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	db := strings.TrimPrefix(u.Path, "/")
	if db == "" {
		return "", fmt.Errorf("clickhouse dsn missing database")
	}
	if !databaseName.MatchString(db) {
		return "", fmt.Errorf("invalid clickhouse database name %q", db)
	}
	return db, nil
}
