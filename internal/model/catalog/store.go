package catalog

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Store exposes product lookup and stock mutation.
type Store interface {
	Get(ctx context.Context, sku string) (Product, bool, error)
	List(ctx context.Context) ([]Product, error)
	SetStock(ctx context.Context, sku string, stock int) error
	// TryReserve decrements stock by qty only when enough is on hand.
	// It reports false without error when the sku is unknown or stock is short.
	TryReserve(ctx context.Context, sku string, qty int) (bool, error)
}

// MemoryStore implements Store with an ordered in-memory slice.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Product
	index map[string]int
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied products.
// Later duplicates of a SKU replace earlier ones in place.
func NewMemoryStore(items []Product) *MemoryStore {
	s := &MemoryStore{index: make(map[string]int, len(items))}
	for _, item := range items {
		item.SustainTags = append([]string(nil), item.SustainTags...)
		if i, ok := s.index[item.SKU]; ok {
			s.items[i] = item
			continue
		}
		s.index[item.SKU] = len(s.items)
		s.items = append(s.items, item)
	}
	return s
}

// Get looks up a product by SKU.
func (s *MemoryStore) Get(_ context.Context, sku string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[sku]
	if !ok {
		return Product{}, false, nil
	}
	return clone(s.items[i]), true, nil
}

// List returns every product in catalog order.
func (s *MemoryStore) List(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.items))
	for i, item := range s.items {
		out[i] = clone(item)
	}
	return out, nil
}

// SetStock overwrites the stock count of an existing product.
func (s *MemoryStore) SetStock(_ context.Context, sku string, stock int) error {
	if stock < 0 {
		return ErrInsufficientStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[sku]
	if !ok {
		return ErrProductNotFound
	}
	s.items[i].Stock = stock
	return nil
}

// TryReserve performs the availability check and decrement under one lock.
func (s *MemoryStore) TryReserve(_ context.Context, sku string, qty int) (bool, error) {
	if qty <= 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[sku]
	if !ok || s.items[i].Stock < qty {
		return false, nil
	}
	s.items[i].Stock -= qty
	return true, nil
}

func clone(p Product) Product {
	p.SustainTags = append([]string(nil), p.SustainTags...)
	return p
}
