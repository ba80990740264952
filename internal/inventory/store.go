package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	ErrVersionConflict = errors.New("product was modified concurrently")
	ErrReadOnly        = errors.New("inventory store is read-only")
	ErrInvalidProduct  = errors.New("invalid product")
)

// Store is the product repository. Implementations must be safe for concurrent use.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, productID string) (Product, error)
	Search(ctx context.Context, term, category string) ([]Product, error)
	Add(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, u ProductUpdate) (Product, error)
	Info(ctx context.Context) (SheetInfo, error)
}

// ProductUpdate changes quantity and/or price of one product. Nil fields are
// left untouched. A non-zero ExpectedVersion must equal the stored version.
type ProductUpdate struct {
	ProductID       string
	Quantity        *int
	Price           *float64
	ExpectedVersion int
}

// Validate checks the update before any store call.
func (u ProductUpdate) Validate() error {
	if strings.TrimSpace(u.ProductID) == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidProduct)
	}
	if u.Quantity == nil && u.Price == nil {
		return fmt.Errorf("%w: nothing to update for %s", ErrInvalidProduct, u.ProductID)
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		return fmt.Errorf("%w: quantity %d is negative", ErrInvalidProduct, *u.Quantity)
	}
	if u.Price != nil && *u.Price < 0 {
		return fmt.Errorf("%w: price %v is negative", ErrInvalidProduct, *u.Price)
	}
	return nil
}

// ValidateNew checks a product before Add.
func ValidateNew(p Product) error {
	if strings.TrimSpace(p.ProductID) == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required for %s", ErrInvalidProduct, p.ProductID)
	}
	if p.Quantity < 0 || p.Price < 0 {
		return fmt.Errorf("%w: quantity and price must be non-negative for %s", ErrInvalidProduct, p.ProductID)
	}
	return nil
}

// IntPtr and FloatPtr build ProductUpdate fields.
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }
