package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/petpoint/pet_point/internal/cart/cache"
	"github.com/petpoint/pet_point/internal/cart/domain"
	"github.com/petpoint/pet_point/internal/cart/repository"
	catalog "github.com/petpoint/pet_point/internal/catalog/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrStockExceeded   = errors.New("quantity exceeds available stock")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLimitReached    = errors.New("quantity limit reached")
)

// ProductReader is the slice of the catalog store the cart needs to validate
// stock ceilings at add time.
type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type CartService struct {
	repo     repository.CartRepository
	cache    cache.CartCache
	products ProductReader
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, products ProductReader) *CartService {
	return &CartService{
		repo:     repo,
		cache:    cache,
		products: products,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.WithError(err).Warn("cart cache get failed") // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) { // not found cart return empty cart
			return &domain.Cart{
				UserID:    userID,
				Lines:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet // err from repo is not cache miss, return it
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), userID, cart)
			if errSet != nil {
				log.WithError(errSet).Warn("cart cache set failed")
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem merges into an existing line for the product or creates a new one.
// The line's stock ceiling is refreshed from the product's current stock.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing := cart.FindLineByProduct(productID); existing != nil {
		newQty := existing.Quantity + qty
		if newQty > product.Stock {
			return nil, ErrStockExceeded
		}

		updated := *existing
		updated.Quantity = newQty
		updated.StockCeiling = product.Stock
		updated.UnitPrice = product.Price
		if errUpdate := s.repo.UpdateLine(ctx, userID, updated); errUpdate != nil {
			return nil, errUpdate
		}
	} else {
		if product.Stock == 0 {
			return nil, ErrOutOfStock
		}
		if qty > product.Stock {
			return nil, ErrStockExceeded
		}

		line := domain.Line{
			LineID:       uuid.New().String(),
			ProductID:    product.ID,
			Name:         product.Name,
			UnitPrice:    product.Price,
			ImageURL:     product.ImageURL,
			Quantity:     qty,
			StockCeiling: product.Stock,
			AddedAt:      time.Now(),
		}
		if errAdd := s.repo.AddLine(ctx, userID, line); errAdd != nil {
			return nil, errAdd
		}
	}

	s.invalidateCache(userID)
	return s.freshCart(ctx, userID)
}

// SetQuantity updates a line in place, keeping 1 <= quantity <= stock ceiling.
func (s *CartService) SetQuantity(ctx context.Context, userID, lineID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	line, err := s.findLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if qty > line.StockCeiling {
		return nil, ErrStockExceeded
	}

	updated := *line
	updated.Quantity = qty
	if errUpdate := s.repo.UpdateLine(ctx, userID, updated); errUpdate != nil {
		return nil, errUpdate
	}

	s.invalidateCache(userID)
	return s.freshCart(ctx, userID)
}

// Increase bumps a line's quantity by one; at the ceiling it returns
// ErrLimitReached without mutating anything.
func (s *CartService) Increase(ctx context.Context, userID, lineID string) (*domain.Cart, error) {
	line, err := s.findLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Quantity+1 > line.StockCeiling {
		return nil, ErrLimitReached
	}
	return s.SetQuantity(ctx, userID, lineID, line.Quantity+1)
}

// Decrease lowers a line's quantity by one; at the floor of 1 it returns
// ErrLimitReached without mutating anything.
func (s *CartService) Decrease(ctx context.Context, userID, lineID string) (*domain.Cart, error) {
	line, err := s.findLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Quantity <= 1 {
		return nil, ErrLimitReached
	}
	return s.SetQuantity(ctx, userID, lineID, line.Quantity-1)
}

func (s *CartService) RemoveLine(ctx context.Context, userID, lineID string) error {
	errRemove := s.repo.RemoveLine(ctx, userID, lineID)
	if errRemove != nil {
		log.WithError(errRemove).Error("repo remove line failed")
		return errRemove
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		log.WithError(errDelete).Error("repo delete cart failed")
		return errDelete
	}

	s.invalidateCache(userID)
	return nil
}

// Totals derives the aggregates from the current line set on every call.
func (s *CartService) Totals(ctx context.Context, userID string) (domain.Totals, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return domain.Totals{}, err
	}
	return cart.Totals(), nil
}

func (s *CartService) findLine(ctx context.Context, userID, lineID string) (*domain.Line, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	line := cart.FindLine(lineID)
	if line == nil {
		return nil, repository.ErrLineNotFound
	}
	return line, nil
}

// freshCart re-reads the cart bypassing the cache, for returning post-mutation state.
func (s *CartService) freshCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return &domain.Cart{UserID: userID}, nil
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID)
	if errInvalidate != nil {
		log.WithError(errInvalidate).Warn("cart cache invalidate failed")
	}
}
