package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/modybick/pos/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrStateNotFound   = errors.New("state entry not found")
)

// Repository is the single durable store of the terminal: product catalog,
// sale ledger and small key/value app state, all in one SQLite file.
type Repository struct {
	db *sql.DB
}

type CatalogRepository interface {
	FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	FindProductsByBarcodes(ctx context.Context, barcodes []string) (map[string]domain.Product, error)
	BulkUpsertProducts(ctx context.Context, products []domain.Product) (int, error)
	ResetProducts(ctx context.Context) error
}

type LedgerRepository interface {
	InsertSaleWithLines(ctx context.Context, sale *domain.Sale, lines []domain.SaleLine) (int64, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	ListSalesWithLines(ctx context.Context) ([]domain.SaleWithLines, error)
	GetSaleLines(ctx context.Context, saleID int64) ([]domain.SaleLine, error)
	SetSaleCancelled(ctx context.Context, saleID int64, cancelled bool) error
	DeleteSale(ctx context.Context, saleID int64) error
	ResetSales(ctx context.Context) error
}

type StateRepository interface {
	GetState(ctx context.Context, key string) (string, error)
	PutState(ctx context.Context, key, value string) error
	EnsureState(ctx context.Context, key, candidate string) (string, error)
	TakeState(ctx context.Context, key string) (string, error)
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// The sale_lines -> sales cascade depends on this pragma.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// A single writer connection keeps the in-memory DSN stable for tests
	// and avoids SQLITE_BUSY between concurrent transactions.
	db.SetMaxOpenConns(1)

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
