package repository

import (
	"context"

	"github.com/petpoint/pet_point/internal/cart/domain"
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, userID string, line domain.Line) error
	UpdateLine(ctx context.Context, userID string, line domain.Line) error
	RemoveLine(ctx context.Context, userID string, lineID string) error
	DeleteCart(ctx context.Context, userID string) error
}
