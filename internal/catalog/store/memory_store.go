package store

import (
	"context"
	"sort"
	"sync"

	"github.com/petpoint/pet_point/internal/catalog/domain"
)

// MemoryStore implements ProductStore with in-memory storage. It backs unit
// tests and local development without a database file.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]*domain.Product),
	}
}

func (s *MemoryStore) GetAllProducts(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) GetStock(_ context.Context, id int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return 0, ErrProductNotFound
	}
	return p.Stock, nil
}

func (s *MemoryStore) SetStock(_ context.Context, id int64, stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.products[id]
	if !exists {
		return ErrProductNotFound
	}
	p.Stock = stock
	return nil
}

// SeedProduct inserts or replaces a product (used for initialization)
func (s *MemoryStore) SeedProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

func (s *MemoryStore) Close() error {
	return nil
}
