package service

import (
	"context"
	"sync"

	cartdomain "github.com/petpoint/pet_point/internal/cart/domain"
	"github.com/petpoint/pet_point/internal/catalog/store"
	r "github.com/petpoint/pet_point/internal/checkout/repository"
)

// mockCartAccess implements CartAccess for testing
type mockCartAccess struct {
	cart     *cartdomain.Cart
	getErr   error
	clearErr error
	cleared  bool
}

func (m *mockCartAccess) GetCart(_ context.Context, _ string) (*cartdomain.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cart, nil
}

func (m *mockCartAccess) ClearCart(_ context.Context, _ string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	m.cart = &cartdomain.Cart{UserID: m.cart.UserID}
	return nil
}

// mockStockStore implements StockStore with a guarded map and records every
// write so tests can assert no negative stock is ever written
type mockStockStore struct {
	mu      sync.Mutex
	stocks  map[int64]int
	getErr  map[int64]error
	setErr  map[int64]error
	written []int
}

func newMockStockStore(stocks map[int64]int) *mockStockStore {
	return &mockStockStore{
		stocks: stocks,
		getErr: make(map[int64]error),
		setErr: make(map[int64]error),
	}
}

func (m *mockStockStore) GetStock(_ context.Context, id int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[id]; err != nil {
		return 0, err
	}
	stock, ok := m.stocks[id]
	if !ok {
		return 0, store.ErrProductNotFound
	}
	return stock, nil
}

func (m *mockStockStore) SetStock(_ context.Context, id int64, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.setErr[id]; err != nil {
		return err
	}
	if stock < 0 {
		return store.ErrNegativeStock
	}
	if _, ok := m.stocks[id]; !ok {
		return store.ErrProductNotFound
	}
	m.stocks[id] = stock
	m.written = append(m.written, stock)
	return nil
}

func (m *mockStockStore) stock(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stocks[id]
}

// mockOrderRepo implements r.RepoInterface for testing
type mockOrderRepo struct {
	CreatedOrder *r.Order
	EventPayload []byte
	CreateErr    error

	UnprocessedEvents []*r.OutboxEvent
	GetEventsErr      error
	ProcessedIDs      []int
	StuckOrders       []*r.Order
	InsertedEvents    []*r.Order
}

func (m *mockOrderRepo) Close() error {
	return nil
}

func (m *mockOrderRepo) RunMigrations(*r.Credentials) error {
	return nil
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *r.Order, payload []byte) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.CreatedOrder = order
	m.EventPayload = payload
	return nil
}

func (m *mockOrderRepo) GetUnprocessedEvents(_ context.Context, _ int) ([]*r.OutboxEvent, error) {
	if m.GetEventsErr != nil {
		return nil, m.GetEventsErr
	}
	events := m.UnprocessedEvents
	m.UnprocessedEvents = nil
	return events, nil
}

func (m *mockOrderRepo) MarkEventAsProcessed(_ context.Context, id int) error {
	m.ProcessedIDs = append(m.ProcessedIDs, id)
	return nil
}

func (m *mockOrderRepo) GetStuckOrders(_ context.Context) ([]*r.Order, error) {
	orders := m.StuckOrders
	m.StuckOrders = nil
	return orders, nil
}

func (m *mockOrderRepo) InsertOrderEvent(_ context.Context, order *r.Order, _ []byte) error {
	m.InsertedEvents = append(m.InsertedEvents, order)
	return nil
}
