package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"adoptme/internal/ports/store"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate crea una tabla por colección (id, seq, doc jsonb) y los índices
// únicos de store.UniqueFields. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, c := range store.Collections {
		stmt := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id   TEXT PRIMARY KEY,
				seq  BIGSERIAL,
				doc  JSONB NOT NULL DEFAULT '{}'::jsonb
			)`, c)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", c, err)
		}

		for _, f := range store.UniqueFields[c] {
			idx := fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_%s_key ON %s ((doc->>'%s'))`, c, f, c, f)
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return fmt.Errorf("migrate %s.%s index: %w", c, f, err)
			}
		}
	}
	return nil
}
