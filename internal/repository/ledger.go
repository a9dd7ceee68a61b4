package repository

import (
	"context"
	"fmt"

	"github.com/modybick/pos/internal/domain"
)

// InsertSaleWithLines writes one sale header and all of its lines in a
// single transaction and returns the id the store assigned to the header.
// Either everything becomes visible at once or nothing does; a reader can
// never observe a sale without its lines.
func (r *Repository) InsertSaleWithLines(ctx context.Context, sale *domain.Sale, lines []domain.SaleLine) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO sales (terminal_id, created_at, payment_method, total_amount, tendered_amount, change_amount, is_cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		sale.TerminalID,
		sale.CreatedAt,
		sale.PaymentMethod,
		sale.TotalAmount,
		sale.TenderedAmount,
		sale.ChangeAmount,
		sale.IsCancelled,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sale: %w", err)
	}

	saleID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned sale id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sale_lines (sale_id, product_barcode, product_name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare line insert: %w", err)
	}
	defer stmt.Close()

	for i := range lines {
		lines[i].SaleID = saleID
		if _, err := stmt.ExecContext(ctx,
			lines[i].SaleID,
			lines[i].ProductBarcode,
			lines[i].ProductName,
			lines[i].UnitPrice,
			lines[i].Quantity,
		); err != nil {
			return 0, fmt.Errorf("failed to insert sale line %s: %w", lines[i].ProductBarcode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sale: %w", err)
	}

	return saleID, nil
}

func (r *Repository) ListSales(ctx context.Context) ([]domain.Sale, error) {
	query := `
		SELECT id, terminal_id, created_at, payment_method, total_amount, tendered_amount, change_amount, is_cancelled
		FROM sales
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(
			&s.ID,
			&s.TerminalID,
			&s.CreatedAt,
			&s.PaymentMethod,
			&s.TotalAmount,
			&s.TenderedAmount,
			&s.ChangeAmount,
			&s.IsCancelled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sales, nil
}

// ListSalesWithLines returns all sales newest first, each paired with its
// lines in barcode order (the order established at commit time).
func (r *Repository) ListSalesWithLines(ctx context.Context) ([]domain.SaleWithLines, error) {
	sales, err := r.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT sale_id, product_barcode, product_name, unit_price, quantity
		FROM sale_lines
		ORDER BY sale_id, product_barcode ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	linesBySale := make(map[int64][]domain.SaleLine)
	for rows.Next() {
		var l domain.SaleLine
		if err := rows.Scan(&l.SaleID, &l.ProductBarcode, &l.ProductName, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		linesBySale[l.SaleID] = append(linesBySale[l.SaleID], l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	result := make([]domain.SaleWithLines, len(sales))
	for i, s := range sales {
		result[i] = domain.SaleWithLines{Sale: s, Lines: linesBySale[s.ID]}
	}

	return result, nil
}

func (r *Repository) GetSaleLines(ctx context.Context, saleID int64) ([]domain.SaleLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sale_id, product_barcode, product_name, unit_price, quantity
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY product_barcode ASC
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.SaleLine
	for rows.Next() {
		var l domain.SaleLine
		if err := rows.Scan(&l.SaleID, &l.ProductBarcode, &l.ProductName, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lines, nil
}

// SetSaleCancelled flips the cancellation flag. Setting the flag to the
// value it already has is a no-op, not an error.
func (r *Repository) SetSaleCancelled(ctx context.Context, saleID int64, cancelled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sales SET is_cancelled = $1 WHERE id = $2`, cancelled, saleID)
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// DeleteSale removes a sale; its lines go with it via the cascade.
func (r *Repository) DeleteSale(ctx context.Context, saleID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

func (r *Repository) ResetSales(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("failed to reset sales: %w", err)
	}
	return nil
}
