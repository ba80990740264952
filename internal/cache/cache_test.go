package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/config"
	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

type memoryProductCache struct {
	products    []inventory.Product
	hits        int
	invalidated int
}

func (m *memoryProductCache) GetProducts(ctx context.Context) ([]inventory.Product, bool, error) {
	if m.products == nil {
		return nil, false, nil
	}
	m.hits++
	return m.products, true, nil
}

func (m *memoryProductCache) SetProducts(ctx context.Context, products []inventory.Product) error {
	m.products = products
	return nil
}

func (m *memoryProductCache) InvalidateAll(ctx context.Context) error {
	m.products = nil
	m.invalidated++
	return nil
}

type countingReportCache struct {
	noopReportCache
	invalidated int
}

func (c *countingReportCache) InvalidateAll(ctx context.Context) error {
	c.invalidated++
	return nil
}

func TestCachedStoreServesListFromCache(t *testing.T) {
	ctx := context.Background()
	products := &memoryProductCache{}
	reports := &countingReportCache{}
	store := NewCachedStore(inventory.NewDemoStore(economics.DefaultPolicy()), products, reports)

	first, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 0, products.hits)

	found, err := store.Search(ctx, "", "audio")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, 1, products.hits)

	_, err = store.Update(ctx, inventory.ProductUpdate{ProductID: "MOUSE001", Quantity: inventory.IntPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, products.invalidated)
	assert.Equal(t, 1, reports.invalidated)

	refreshed, err := store.List(ctx)
	require.NoError(t, err)
	for _, p := range refreshed {
		if p.ProductID == "MOUSE001" {
			assert.Equal(t, 1, p.Quantity)
		}
	}
}

// racingStore runs onList after reading, before List returns to the cache.
type racingStore struct {
	inventory.Store
	onList func()
}

func (r *racingStore) List(ctx context.Context) ([]inventory.Product, error) {
	products, err := r.Store.List(ctx)
	if r.onList != nil {
		hook := r.onList
		r.onList = nil
		hook()
	}
	return products, err
}

func TestCachedStoreDropsSnapshotOlderThanWrite(t *testing.T) {
	ctx := context.Background()
	products := &memoryProductCache{}
	inner := &racingStore{Store: inventory.NewDemoStore(economics.DefaultPolicy())}
	store := NewCachedStore(inner, products, nil)

	inner.onList = func() {
		_, err := store.Update(ctx, inventory.ProductUpdate{ProductID: "MOUSE001", Quantity: inventory.IntPtr(1)})
		require.NoError(t, err)
	}

	stale, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 10)
	assert.Nil(t, products.products, "snapshot read before the update must not be cached")

	fresh, err := store.List(ctx)
	require.NoError(t, err)
	for _, p := range fresh {
		if p.ProductID == "MOUSE001" {
			assert.Equal(t, 1, p.Quantity)
		}
	}
	assert.NotNil(t, products.products)
}

func TestCachedStoreFailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	products := &memoryProductCache{}
	store := NewCachedStore(inventory.NewDemoStore(economics.DefaultPolicy()), products, nil)

	_, err := store.List(ctx)
	require.NoError(t, err)

	_, err = store.Update(ctx, inventory.ProductUpdate{ProductID: "NOPE001", Quantity: inventory.IntPtr(1)})
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
	assert.Equal(t, 0, products.invalidated)
}

func TestDisabledCachesAreNoop(t *testing.T) {
	r, err := Connect(context.Background(), config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.NoError(t, r.Close())

	products := NewProductCache(r, "sheet")
	_, ok, err := products.GetProducts(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	reports := NewReportCache(r)
	_, ok, err = reports.GetReport(context.Background(), ReportKey{Kind: "abc"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildReportKey(t *testing.T) {
	policy := economics.DefaultPolicy()

	a := buildReportKey(ReportKey{Kind: "product_metrics", Params: map[string]string{"product": "laptop001", "category": ""}, Policy: policy})
	b := buildReportKey(ReportKey{Kind: "PRODUCT_METRICS", Params: map[string]string{"product": "LAPTOP001"}, Policy: policy})
	assert.Equal(t, a, b)
	assert.Contains(t, a, reportKeyPrefix+":")

	policy.LeadTimeDays = 14
	c := buildReportKey(ReportKey{Kind: "product_metrics", Params: map[string]string{"product": "LAPTOP001"}, Policy: policy})
	assert.NotEqual(t, a, c)
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisHost: "cache.local", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache.local:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://:secret@10.0.0.5:6380/1"})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = redisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}
