// Package catalog resolves product ids to current name/price/image. Cart and
// wishlist lines snapshot this data once, at add-time.
package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/retrorack/storefront/internal/domain"
)

type Service struct {
	repo  Repository
	cache ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// GetProduct serves from cache when possible; concurrent misses for the same
// product collapse into one repository read.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(cacheKey(id), func() (interface{}, error) {

		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil // product is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("catalog: cache get error: %v", err) // log cache error but continue
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			if errSet := s.cache.Set(context.Background(), product); errSet != nil {
				log.Printf("catalog: cache set error: %v", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

// ListProducts always reads through to the repository; the storefront grid
// is cheap enough to serve straight from SQLite.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetAllProducts(ctx)
}
