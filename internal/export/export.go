package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/modybick/pos/internal/catalog"
	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/repository"
)

const timeLayout = "2006-01-02 15:04:05"

var header = []string{
	"terminal_id",
	"sale_id",
	"created_at",
	"payment_method",
	"total_amount",
	"tendered_amount",
	"change_amount",
	"cancelled",
	"product_barcode",
	"product_name",
	"category",
	"unit_price",
	"quantity",
}

// Exporter flattens the sale history into delimited text: one row per line
// item, sale fields repeated on each of its rows. The category column is
// enrichment from the current catalog, not part of the historical record.
type Exporter struct {
	ledger  repository.LedgerRepository
	catalog *catalog.Service
}

func NewExporter(ledger repository.LedgerRepository, cat *catalog.Service) *Exporter {
	return &Exporter{ledger: ledger, catalog: cat}
}

// Export produces the CSV for the whole history, newest sale first, lines in
// commit order within each sale.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	sales, err := e.ledger.ListSalesWithLines(ctx)
	if err != nil {
		return "", err
	}

	categories, err := e.currentCategories(ctx, sales)
	if err != nil {
		return "", err
	}

	return BuildCSV(sales, categories)
}

func (e *Exporter) currentCategories(ctx context.Context, sales []domain.SaleWithLines) (map[string]string, error) {
	seen := make(map[string]struct{})
	var barcodes []string
	for _, s := range sales {
		for _, l := range s.Lines {
			if _, ok := seen[l.ProductBarcode]; ok {
				continue
			}
			seen[l.ProductBarcode] = struct{}{}
			barcodes = append(barcodes, l.ProductBarcode)
		}
	}

	products, err := e.catalog.FindMany(ctx, barcodes)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]string, len(products))
	for barcode, p := range products {
		categories[barcode] = p.Category
	}
	return categories, nil
}

// BuildCSV renders the rows. Field quoting follows standard CSV escaping;
// product names are free text and may contain commas and quotes.
func BuildCSV(sales []domain.SaleWithLines, categories map[string]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range sales {
		for _, l := range s.Lines {
			row := []string{
				s.Sale.TerminalID,
				strconv.FormatInt(s.Sale.ID, 10),
				s.Sale.CreatedAt.Format(timeLayout),
				s.Sale.PaymentMethod,
				strconv.FormatInt(s.Sale.TotalAmount, 10),
				strconv.FormatInt(s.Sale.TenderedAmount, 10),
				strconv.FormatInt(s.Sale.ChangeAmount, 10),
				strconv.FormatBool(s.Sale.IsCancelled),
				l.ProductBarcode,
				l.ProductName,
				categories[l.ProductBarcode],
				strconv.FormatInt(l.UnitPrice, 10),
				strconv.Itoa(l.Quantity),
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return sb.String(), nil
}
