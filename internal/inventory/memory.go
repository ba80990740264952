package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
)

// MemoryStore keeps products in insertion order behind a RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	title    string
	products []Product
	index    map[string]int
	policy   economics.Policy
	now      func() time.Time
}

// Verify interface compliance
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding a copy of products.
func NewMemoryStore(title string, policy economics.Policy, products []Product) *MemoryStore {
	s := &MemoryStore{
		title:  title,
		index:  make(map[string]int, len(products)),
		policy: policy,
		now:    time.Now,
	}
	for _, p := range products {
		if _, ok := s.index[p.ProductID]; ok {
			continue
		}
		s.insert(p)
	}
	return s
}

// NewDemoStore returns a MemoryStore seeded with DemoProducts.
func NewDemoStore(policy economics.Policy) *MemoryStore {
	return NewMemoryStore("Inventory (demo data)", policy, DemoProducts(policy, time.Now()))
}

// SetClock replaces the timestamp source, for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) insert(p Product) Product {
	if p.Status == "" {
		p.Status = StatusFor(p.Quantity, s.policy)
	}
	if p.Version == 0 {
		p.Version = 1
	}
	p.Row = len(s.products) + 2
	s.index[p.ProductID] = len(s.products)
	s.products = append(s.products, p)
	return p
}

func (s *MemoryStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, productID string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[productID]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return s.products[i], nil
}

func (s *MemoryStore) Search(ctx context.Context, term, category string) ([]Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, term, category), nil
}

func (s *MemoryStore) Add(ctx context.Context, p Product) (Product, error) {
	if err := ValidateNew(p); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[p.ProductID]; ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductExists, p.ProductID)
	}

	p.Status = StatusFor(p.Quantity, s.policy)
	p.LastUpdated = s.now().Format(TimestampLayout)
	p.Version = 1
	return s.insert(p), nil
}

func (s *MemoryStore) Update(ctx context.Context, u ProductUpdate) (Product, error) {
	if err := u.Validate(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[u.ProductID]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, u.ProductID)
	}

	p := s.products[i]
	if u.ExpectedVersion != 0 && u.ExpectedVersion != p.Version {
		return Product{}, fmt.Errorf("%w: %s at version %d, expected %d",
			ErrVersionConflict, u.ProductID, p.Version, u.ExpectedVersion)
	}

	if u.Quantity != nil {
		p.Quantity = *u.Quantity
		p.Status = StatusFor(p.Quantity, s.policy)
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	p.LastUpdated = s.now().Format(TimestampLayout)
	p.Version++

	s.products[i] = p
	return p, nil
}

func (s *MemoryStore) Info(ctx context.Context) (SheetInfo, error) {
	products, err := s.List(ctx)
	if err != nil {
		return SheetInfo{}, err
	}

	s.mu.RLock()
	now := s.now()
	s.mu.RUnlock()

	return Summarize(s.title, products, now), nil
}

// DemoProducts is the ten-product catalogue used when no spreadsheet is configured.
func DemoProducts(policy economics.Policy, now time.Time) []Product {
	stamp := now.Format(TimestampLayout)
	rows := []Product{
		{ProductID: "LAPTOP001", Name: "Gaming Laptop", Quantity: 15, Price: 1299.99, Category: "Electronics"},
		{ProductID: "PHONE001", Name: "Smartphone Pro", Quantity: 45, Price: 899.99, Category: "Electronics"},
		{ProductID: "TABLET001", Name: "Tablet Air", Quantity: 8, Price: 599.99, Category: "Electronics"},
		{ProductID: "HEADPHONE001", Name: "Wireless Headphones", Quantity: 0, Price: 199.99, Category: "Audio"},
		{ProductID: "MOUSE001", Name: "Gaming Mouse", Quantity: 120, Price: 79.99, Category: "Accessories"},
		{ProductID: "KEYBOARD001", Name: "Mechanical Keyboard", Quantity: 35, Price: 149.99, Category: "Accessories"},
		{ProductID: "MONITOR001", Name: "4K Monitor", Quantity: 12, Price: 399.99, Category: "Electronics"},
		{ProductID: "SPEAKER001", Name: "Bluetooth Speaker", Quantity: 25, Price: 129.99, Category: "Audio"},
		{ProductID: "WEBCAM001", Name: "HD Webcam", Quantity: 18, Price: 89.99, Category: "Accessories"},
		{ProductID: "CHARGER001", Name: "USB-C Charger", Quantity: 50, Price: 29.99, Category: "Accessories"},
	}
	for i := range rows {
		rows[i].Status = StatusFor(rows[i].Quantity, policy)
		rows[i].LastUpdated = stamp
		rows[i].Version = 1
	}
	return rows
}
