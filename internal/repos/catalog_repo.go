package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
)

// CatalogRepo implements catalog.Store on top of sqlite.
type CatalogRepo struct{ db *sqlx.DB }

var _ catalog.Store = (*CatalogRepo)(nil)

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

type productRow struct {
	SKU         string  `db:"sku"`
	Name        string  `db:"name"`
	Color       string  `db:"color"`
	Material    string  `db:"material"`
	Price       float64 `db:"price"`
	Stock       int     `db:"stock"`
	SustainTags string  `db:"sustain_tags"`
}

func toRow(p catalog.Product) (productRow, error) {
	tags := p.SustainTags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return productRow{}, fmt.Errorf("encode tags for %s: %w", p.SKU, err)
	}
	return productRow{
		SKU:         p.SKU,
		Name:        p.Name,
		Color:       p.Color,
		Material:    p.Material,
		Price:       p.Price,
		Stock:       p.Stock,
		SustainTags: string(raw),
	}, nil
}

func (r productRow) product() (catalog.Product, error) {
	var tags []string
	if r.SustainTags != "" {
		if err := json.Unmarshal([]byte(r.SustainTags), &tags); err != nil {
			return catalog.Product{}, fmt.Errorf("decode tags for %s: %w", r.SKU, err)
		}
	}
	return catalog.Product{
		SKU:         r.SKU,
		Name:        r.Name,
		Color:       r.Color,
		Material:    r.Material,
		Price:       r.Price,
		Stock:       r.Stock,
		SustainTags: tags,
	}, nil
}

const productColumns = `sku, name, color, material, price, stock, sustain_tags`

// Get returns the product for sku; ok is false when no row exists.
func (r *CatalogRepo) Get(ctx context.Context, sku string) (catalog.Product, bool, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, fmt.Errorf("get product %s: %w", sku, err)
	}
	p, err := row.product()
	if err != nil {
		return catalog.Product{}, false, err
	}
	return p, true, nil
}

// List returns all products in insertion order.
func (r *CatalogRepo) List(ctx context.Context) ([]catalog.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+productColumns+` FROM products ORDER BY position`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.product()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SetStock overwrites the stock for an existing sku.
func (r *CatalogRepo) SetStock(ctx context.Context, sku string, stock int) error {
	if stock < 0 {
		return catalog.ErrInsufficientStock
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP
		WHERE sku = ?
	`, stock, sku)
	if err != nil {
		return fmt.Errorf("set stock %s: %w", sku, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// TryReserve atomically subtracts qty if enough stock exists.
func (r *CatalogRepo) TryReserve(ctx context.Context, sku string, qty int) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE sku = ? AND stock >= ?
	`, qty, sku, qty)
	if err != nil {
		return false, fmt.Errorf("reserve %s: %w", sku, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve %s: %w", sku, err)
	}
	return n == 1, nil
}
