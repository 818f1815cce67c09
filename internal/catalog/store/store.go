package store

import (
	"context"
	"errors"

	"github.com/petpoint/pet_point/internal/catalog/domain"
)

// Common errors returned by the store
var (
	ErrProductNotFound = errors.New("product not found")
	ErrNegativeStock   = errors.New("stock cannot be negative")
)

// ProductStore defines the interface for product catalog and stock operations
type ProductStore interface {
	// GetAllProducts returns the full catalog
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)

	// GetProduct returns a single product or ErrProductNotFound
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// GetStock returns the remaining stock for a product
	GetStock(ctx context.Context, id int64) (int, error)

	// SetStock overwrites the remaining stock; negative values are rejected
	SetStock(ctx context.Context, id int64, stock int) error

	// Close shuts down the store
	Close() error
}
