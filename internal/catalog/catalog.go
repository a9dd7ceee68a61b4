package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/modybick/pos/internal/cache"
	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/repository"
)

// Service is the read path of the product catalog: cache first, repository
// on miss, with singleflight collapsing concurrent misses for the same
// barcode (rapid duplicate camera frames hit the same key).
type Service struct {
	repo  repository.CatalogRepository
	cache cache.ProductCache
	sfg   singleflight.Group
}

func NewService(repo repository.CatalogRepository, productCache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: productCache,
	}
}

// Lookup returns the product for a barcode or repository.ErrProductNotFound.
// Cache failures are logged and ignored; the repository is authoritative.
func (s *Service) Lookup(ctx context.Context, barcode string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(barcode, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, barcode)
		if err == nil {
			return product, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		product, errGet := s.repo.FindProductByBarcode(ctx, barcode)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), product); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *Service) FindMany(ctx context.Context, barcodes []string) (map[string]domain.Product, error) {
	return s.repo.FindProductsByBarcodes(ctx, barcodes)
}

// BulkReplace upserts the given products and invalidates their cache keys.
func (s *Service) BulkReplace(ctx context.Context, products []domain.Product) (int, error) {
	count, err := s.repo.BulkUpsertProducts(ctx, products)
	if err != nil {
		return 0, err
	}

	barcodes := make([]string, len(products))
	for i, p := range products {
		barcodes[i] = p.Barcode
	}
	if errDel := s.cache.Delete(ctx, barcodes...); errDel != nil {
		log.Printf("cache invalidate error: %v", errDel)
	}

	return count, nil
}
