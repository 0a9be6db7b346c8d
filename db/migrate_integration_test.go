package db

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestMigrateIsIdempotent verifies a restart against an already-migrated
// database succeeds: the second run must skip every recorded file instead of
// tripping over duplicate CREATE TYPE / CREATE TABLE statements.
func TestMigrateIsIdempotent(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("migrate_test_%d", time.Now().UnixNano())
	ident := pgx.Identifier{schema}.Sanitize()

	admin, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", ident)); err != nil {
		admin.Close(ctx)
		t.Fatalf("create schema: %v", err)
	}
	admin.Close(ctx)
	t.Cleanup(func() {
		dropConn, err := pgx.Connect(context.Background(), dsn)
		if err != nil {
			t.Logf("cleanup connect: %v", err)
			return
		}
		defer dropConn.Close(context.Background())
		_, _ = dropConn.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", ident))
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	setPath := fmt.Sprintf("SET search_path TO %s", ident)
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, setPath)
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	var recorded int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM schema_migrations`).Scan(&recorded); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if recorded != len(entries) {
		t.Errorf("schema_migrations rows = %d, want %d (one per file, no re-application)", recorded, len(entries))
	}

	// The schema itself must be in place after the double run.
	var users int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM appusers`).Scan(&users); err != nil {
		t.Fatalf("query appusers: %v", err)
	}
	if users != 0 {
		t.Errorf("appusers rows = %d, want 0 in a fresh schema", users)
	}
}
