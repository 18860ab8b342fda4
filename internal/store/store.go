package store

import (
	"context"
	"errors"

	"invopos/backend/internal/domain"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidProduct = errors.New("invalid product")
	ErrDuplicateID    = errors.New("duplicate product id")
)

// Catalog is the durable product table. Each call is independently atomic;
// there is no isolation guarantee across calls (last writer wins).
type Catalog interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, product domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Validate applies the catalog constraints shared by every backend: non-empty
// id and name, non-negative prices, status inside the enumerated set.
func Validate(p domain.Product) error {
	if p.ID == "" || p.Name == "" {
		return ErrInvalidProduct
	}
	if p.PurchasePrice.IsNegative() || p.SalePrice.IsNegative() {
		return ErrInvalidProduct
	}
	if p.Status != domain.StatusActive && p.Status != domain.StatusInactive {
		return ErrInvalidProduct
	}
	return nil
}
