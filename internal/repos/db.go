package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
)

// OpenDB opens the sqlite catalog database, creates the schema and seeds it when empty.
func OpenDB(ctx context.Context, dsn string, seed []catalog.Product) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := seedIfEmpty(ctx, db, seed); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS products(
  position INTEGER PRIMARY KEY AUTOINCREMENT,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  color TEXT NOT NULL DEFAULT '',
  material TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price > 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  sustain_tags TEXT NOT NULL DEFAULT '[]',
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_color    ON products(LOWER(color));
CREATE INDEX IF NOT EXISTS idx_products_material ON products(LOWER(material));
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func seedIfEmpty(ctx context.Context, db *sqlx.DB, seed []catalog.Product) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 || len(seed) == 0 {
		return nil
	}

	log.Info().Str("component", "repos").Int("products", len(seed)).Msg("seeding catalog")

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range seed {
		row, err := toRow(p)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO products(sku, name, color, material, price, stock, sustain_tags)
			VALUES (:sku, :name, :color, :material, :price, :stock, :sustain_tags)
			ON CONFLICT(sku) DO NOTHING
		`, row); err != nil {
			return fmt.Errorf("seed %s: %w", p.SKU, err)
		}
	}
	return tx.Commit()
}
