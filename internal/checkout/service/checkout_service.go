package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	cartdomain "github.com/petpoint/pet_point/internal/cart/domain"
	"github.com/petpoint/pet_point/internal/catalog/store"
	d "github.com/petpoint/pet_point/internal/checkout/domain"
	r "github.com/petpoint/pet_point/internal/checkout/repository"
	log "github.com/sirupsen/logrus"
)

// CartAccess is the slice of the cart service the orchestrator needs.
type CartAccess interface {
	GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// StockStore is the authoritative stock contract consulted during checkout.
type StockStore interface {
	GetStock(ctx context.Context, id int64) (int, error)
	SetStock(ctx context.Context, id int64, stock int) error
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID string) (*d.Result, error)
}

type CheckoutServiceImpl struct {
	cart  CartAccess
	stock StockStore
	repo  r.RepoInterface

	// timeout bounds each remote stock fetch/write; expiry counts as a line failure
	timeout time.Duration

	// clearOnFailure controls whether the cart is cleared when zero lines
	// processed; the source behavior (always clear) is kept as the default
	clearOnFailure bool
}

func NewCheckoutService(cart CartAccess, stock StockStore, repo r.RepoInterface, timeout time.Duration, clearOnFailure bool) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		cart:           cart,
		stock:          stock,
		repo:           repo,
		timeout:        timeout,
		clearOnFailure: clearOnFailure,
	}
}

// Checkout converts the current cart into committed stock decrements. The
// batch is best-effort: each line is reconciled independently, failures do not
// abort the batch and there is no rollback of prior decrements.
func (s *CheckoutServiceImpl) Checkout(ctx context.Context, userID string) (*d.Result, error) {
	cart, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot := buildCartSnapshot(cart)

	result := &d.Result{
		OrderID:     uuid.New().String(),
		Lines:       make([]d.LineResult, 0, len(cart.Lines)),
		TotalAmount: snapshot.TotalAmount,
		Currency:    snapshot.Currency,
	}

	// Lines are processed strictly in cart order, one at a time, so a line's
	// fetch/write pair never interleaves with another write to the same product.
	for _, line := range cart.Lines {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Cancelled mid-batch: remaining lines are recorded as failed and
			// already-applied decrements stand.
			s.failRemaining(result, cart.Lines[len(result.Lines):], "checkout cancelled")
			break
		}
		result.Lines = append(result.Lines, s.reconcileLine(ctx, line))
	}

	for _, lr := range result.Lines {
		if lr.Processed {
			result.ItemsProcessed++
		} else {
			result.ItemsFailed++
		}
	}

	switch {
	case result.ItemsFailed == 0:
		result.Outcome = d.OutcomeOrderPlaced
	case result.ItemsProcessed > 0:
		result.Outcome = d.OutcomeOrderPlacedWithWarnings
	default:
		result.Outcome = d.OutcomeOrderFailed
	}

	s.persistOrder(ctx, userID, result, snapshot)

	if result.ItemsProcessed > 0 || s.clearOnFailure {
		if errClear := s.cart.ClearCart(ctx, userID); errClear != nil {
			log.WithError(errClear).WithField("user_id", userID).Error("failed to clear cart after checkout")
		}
	}

	log.WithFields(log.Fields{
		"order_id":  result.OrderID,
		"user_id":   userID,
		"outcome":   result.Outcome,
		"processed": result.ItemsProcessed,
		"failed":    result.ItemsFailed,
	}).Info("checkout finished")

	return result, nil
}

// reconcileLine runs one line's fetch -> compute -> write sequence.
func (s *CheckoutServiceImpl) reconcileLine(ctx context.Context, line cartdomain.Line) d.LineResult {
	lr := d.LineResult{
		ProductID: line.ProductID,
		Name:      line.Name,
		Quantity:  line.Quantity,
	}

	stockCtx, cancel := context.WithTimeout(ctx, s.timeout)
	current, err := s.stock.GetStock(stockCtx, line.ProductID)
	cancel()
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			lr.Reason = "product not found"
		} else {
			lr.Reason = "stock lookup failed"
			log.WithError(err).WithField("product_id", line.ProductID).Warn("stock lookup failed")
		}
		return lr
	}

	newStock := current - line.Quantity
	if newStock < 0 {
		// Stock depleted since the line was added; never write a negative value
		lr.Reason = "insufficient stock"
		return lr
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.stock.SetStock(writeCtx, line.ProductID, newStock)
	cancel()
	if err != nil {
		lr.Reason = "stock update failed"
		log.WithError(err).WithField("product_id", line.ProductID).Warn("stock update failed")
		return lr
	}

	lr.Processed = true
	return lr
}

func (s *CheckoutServiceImpl) failRemaining(result *d.Result, remaining []cartdomain.Line, reason string) {
	for _, line := range remaining {
		result.Lines = append(result.Lines, d.LineResult{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Reason:    reason,
		})
	}
}

// persistOrder records the order and its outbox event; a persistence failure
// is logged but does not fail the checkout the user already completed.
func (s *CheckoutServiceImpl) persistOrder(ctx context.Context, userID string, result *d.Result, snapshot *d.CartSnapshot) {
	if s.repo == nil {
		return
	}

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		log.WithError(err).Error("failed to marshal cart snapshot")
		return
	}

	order := &r.Order{
		ID:             result.OrderID,
		UserID:         userID,
		Outcome:        result.Outcome.String(),
		ItemsProcessed: result.ItemsProcessed,
		ItemsFailed:    result.ItemsFailed,
		TotalAmount:    result.TotalAmount,
		Currency:       result.Currency,
		CartSnapshot:   snapshotJSON,
	}

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":     result.OrderID,
		"user_id":      userID,
		"outcome":      result.Outcome,
		"items":        snapshot.Items,
		"total_amount": snapshot.TotalAmount,
		"currency":     snapshot.Currency,
	})
	if err != nil {
		log.WithError(err).Error("failed to marshal order event payload")
		return
	}

	if err := s.repo.CreateOrder(ctx, order, payload); err != nil {
		log.WithError(err).WithField("order_id", result.OrderID).Error("failed to persist order")
	}
}

// buildCartSnapshot captures line prices at checkout time
func buildCartSnapshot(cart *cartdomain.Cart) *d.CartSnapshot {
	snapshot := &d.CartSnapshot{
		Items:      make([]d.CartSnapshotItem, 0, len(cart.Lines)),
		Currency:   "USD",
		CapturedAt: time.Now(),
	}

	var totalAmount float64
	for _, line := range cart.Lines {
		subtotal := line.UnitPrice * float64(line.Quantity)
		snapshot.Items = append(snapshot.Items, d.CartSnapshotItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    subtotal,
		})
		totalAmount += subtotal
	}

	snapshot.TotalAmount = totalAmount
	return snapshot
}
