package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/petpoint/pet_point/internal/cart/domain"
	cartservice "github.com/petpoint/pet_point/internal/cart/service"
)

// CartAPI is the slice of the cart service the gateway consumes.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, productID int64, qty int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, userID, lineID string, qty int) (*domain.Cart, error)
	Increase(ctx context.Context, userID, lineID string) (*domain.Cart, error)
	Decrease(ctx context.Context, userID, lineID string) (*domain.Cart, error)
	RemoveLine(ctx context.Context, userID, lineID string) error
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	cart    CartAPI
	timeout time.Duration
}

func NewCartHandler(cart CartAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Cart         *domain.Cart  `json:"cart"`
	Totals       domain.Totals `json:"totals"`
	LimitReached bool          `json:"limit_reached,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: cart, Totals: cart.Totals()})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cart.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CartResponseDTO{Cart: cart, Totals: cart.Totals()})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	lineID := chi.URLParam(r, "line_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.cart.SetQuantity(ctx, userID, lineID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: cart, Totals: cart.Totals()})
}

// Increase and Decrease treat the ceiling/floor as a no-op rather than an
// error: the unchanged cart comes back with limit_reached set.
func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.cart.Increase)
}

func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.cart.Decrease)
}

func (h *CartHandler) step(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, userID, lineID string) (*domain.Cart, error)) {

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	lineID := chi.URLParam(r, "line_id")

	cart, err := op(ctx, userID, lineID)
	if err != nil {
		if errors.Is(err, cartservice.ErrLimitReached) {
			current, errGet := h.cart.GetCart(ctx, userID)
			if errGet != nil {
				handleServiceError(w, errGet)
				return
			}
			respondJSON(w, http.StatusOK, CartResponseDTO{Cart: current, Totals: current.Totals(), LimitReached: true})
			return
		}
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: cart, Totals: cart.Totals()})
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	lineID := chi.URLParam(r, "line_id")

	if err := h.cart.RemoveLine(ctx, userID, lineID); err != nil {
		handleServiceError(w, err)
		return
	}

	cart, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: cart, Totals: cart.Totals()})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.cart.ClearCart(ctx, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	empty := &domain.Cart{UserID: userID, Lines: []domain.Line{}}
	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: empty, Totals: empty.Totals()})
}
