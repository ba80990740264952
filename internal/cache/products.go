package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

const productsKeyPrefix = "inventory:products"

// ProductCache holds the full product list of one worksheet.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]inventory.Product, bool, error)
	SetProducts(ctx context.Context, products []inventory.Product) error
	InvalidateAll(ctx context.Context) error
}

type redisProductCache struct {
	redis *Redis
	key   string
}

type noopProductCache struct{}

// NewProductCache caches through r, or does nothing when r is nil. scope
// identifies the worksheet so two sheets never share entries.
func NewProductCache(r *Redis, scope string) ProductCache {
	if r == nil {
		return &noopProductCache{}
	}
	return &redisProductCache{redis: r, key: hashedKey(productsKeyPrefix, scope)}
}

func NewNoopProductCache() ProductCache {
	return &noopProductCache{}
}

func (c *redisProductCache) GetProducts(ctx context.Context) ([]inventory.Product, bool, error) {
	payload, ok, err := c.redis.get(ctx, c.key)
	if !ok || err != nil {
		return nil, false, err
	}

	var products []inventory.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false, fmt.Errorf("decode product cache: %w", err)
	}

	return products, true, nil
}

func (c *redisProductCache) SetProducts(ctx context.Context, products []inventory.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode product cache: %w", err)
	}

	return c.redis.set(ctx, c.key, payload)
}

func (c *redisProductCache) InvalidateAll(ctx context.Context) error {
	return c.redis.unlinkPrefix(ctx, c.key)
}

func (n *noopProductCache) GetProducts(ctx context.Context) ([]inventory.Product, bool, error) {
	return nil, false, nil
}

func (n *noopProductCache) SetProducts(ctx context.Context, products []inventory.Product) error {
	return nil
}

func (n *noopProductCache) InvalidateAll(ctx context.Context) error {
	return nil
}
