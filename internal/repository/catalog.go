package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/modybick/pos/internal/domain"
)

func (r *Repository) FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	query := `
		SELECT barcode, name, price, category
		FROM products
		WHERE barcode = $1
	`

	p := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, barcode).Scan(
		&p.Barcode,
		&p.Name,
		&p.Price,
		&p.Category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

func (r *Repository) FindProductsByBarcodes(ctx context.Context, barcodes []string) (map[string]domain.Product, error) {
	if len(barcodes) == 0 {
		return map[string]domain.Product{}, nil
	}

	placeholders := make([]string, len(barcodes))
	args := make([]interface{}, len(barcodes))
	for i, b := range barcodes {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = b
	}

	query := fmt.Sprintf(`
		SELECT barcode, name, price, category
		FROM products
		WHERE barcode IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make(map[string]domain.Product, len(barcodes))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.Barcode, &p.Name, &p.Price, &p.Category); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.Barcode] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

// BulkUpsertProducts inserts each product, overwriting any existing row with
// the same barcode, and returns the number of rows written. Rows are applied
// one by one inside a transaction; the batch is a data refresh, not a ledger
// write, so the caller may retry the whole import on failure.
func (r *Repository) BulkUpsertProducts(ctx context.Context, products []domain.Product) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (barcode, name, price, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT(barcode) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			category = excluded.category
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.Barcode, p.Name, p.Price, p.Category); err != nil {
			return 0, fmt.Errorf("failed to upsert product %s: %w", p.Barcode, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}

	return count, nil
}

func (r *Repository) ResetProducts(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to reset products: %w", err)
	}
	return nil
}
