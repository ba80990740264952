package cache

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

// CachedStore serves List and Search from a ProductCache. Get and writes
// always reach the wrapped store, and writes drop both caches.
//
// gen is bumped on every invalidation. A List that read the store under an
// older generation does not write its snapshot back.
type CachedStore struct {
	inner    inventory.Store
	products ProductCache
	reports  ReportCache

	mu  sync.Mutex
	gen uint64
}

// Verify interface compliance
var _ inventory.Store = (*CachedStore)(nil)

func NewCachedStore(inner inventory.Store, products ProductCache, reports ReportCache) *CachedStore {
	if products == nil {
		products = NewNoopProductCache()
	}
	if reports == nil {
		reports = NewNoopReportCache()
	}
	return &CachedStore{inner: inner, products: products, reports: reports}
}

func (s *CachedStore) List(ctx context.Context) ([]inventory.Product, error) {
	if cached, ok, err := s.products.GetProducts(ctx); err != nil {
		log.Warn().Err(err).Msg("product cache read failed")
	} else if ok {
		return cached, nil
	}

	gen := s.generation()
	products, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return products, nil
	}
	if err := s.products.SetProducts(ctx, products); err != nil {
		log.Warn().Err(err).Msg("product cache write failed")
	}
	return products, nil
}

func (s *CachedStore) Get(ctx context.Context, productID string) (inventory.Product, error) {
	return s.inner.Get(ctx, productID)
}

func (s *CachedStore) Search(ctx context.Context, term, category string) ([]inventory.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Filter(products, term, category), nil
}

func (s *CachedStore) Add(ctx context.Context, p inventory.Product) (inventory.Product, error) {
	added, err := s.inner.Add(ctx, p)
	if err != nil {
		return inventory.Product{}, err
	}
	s.invalidate(ctx)
	return added, nil
}

func (s *CachedStore) Update(ctx context.Context, u inventory.ProductUpdate) (inventory.Product, error) {
	updated, err := s.inner.Update(ctx, u)
	if err != nil {
		return inventory.Product{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CachedStore) Info(ctx context.Context) (inventory.SheetInfo, error) {
	return s.inner.Info(ctx)
}

func (s *CachedStore) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *CachedStore) invalidate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if err := s.products.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate product cache")
	}
	if err := s.reports.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate report cache")
	}
}
