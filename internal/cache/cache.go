package cache

import (
	"context"
	"errors"

	"github.com/modybick/pos/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// ProductCache is a soft read-through cache in front of the catalog. Every
// method may fail without affecting correctness; callers fall back to the
// repository.
type ProductCache interface {
	Get(ctx context.Context, barcode string) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, barcodes ...string) error
}

// Noop satisfies ProductCache without caching anything. Used when the
// terminal runs without a Redis instance.
type Noop struct{}

func (Noop) Get(context.Context, string) (*domain.Product, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, *domain.Product) error           { return nil }
func (Noop) Delete(context.Context, ...string) error              { return nil }
