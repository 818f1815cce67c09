package service

import (
	"context"
	"errors"
	"time"

	"github.com/petpoint/pet_point/internal/catalog/store"
	"github.com/sony/gobreaker/v2"
)

// BreakerStockStore wraps a StockStore in a circuit breaker so a failing stock
// backend degrades to fast per-line failures instead of stalling the batch.
type BreakerStockStore struct {
	inner StockStore
	cb    *gobreaker.CircuitBreaker[int]
}

func NewBreakerStockStore(inner StockStore) *BreakerStockStore {
	settings := gobreaker.Settings{
		Name:        "stock-store",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Business rejections are not backend failures and must not trip the breaker
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, store.ErrProductNotFound) ||
				errors.Is(err, store.ErrNegativeStock)
		},
	}
	return &BreakerStockStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[int](settings),
	}
}

func (b *BreakerStockStore) GetStock(ctx context.Context, id int64) (int, error) {
	return b.cb.Execute(func() (int, error) {
		return b.inner.GetStock(ctx, id)
	})
}

func (b *BreakerStockStore) SetStock(ctx context.Context, id int64, stock int) error {
	_, err := b.cb.Execute(func() (int, error) {
		return 0, b.inner.SetStock(ctx, id, stock)
	})
	return err
}
