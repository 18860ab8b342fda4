package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invopos/backend/internal/domain"
	"invopos/backend/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func New() *Store {
	return &Store{products: make(map[string]domain.Product)}
}

// NewSeeded returns a store preloaded with a small demo catalog for dev mode.
func NewSeeded() *Store {
	seed := []domain.Product{
		{Name: "Apple", PurchasePrice: dec("2.10"), SalePrice: dec("2.99"), Expiry: "2026-02-01", Status: domain.StatusActive},
		{Name: "Banana", PurchasePrice: dec("0.95"), SalePrice: dec("1.49"), Expiry: "2026-01-15", Status: domain.StatusActive},
		{Name: "Orange", PurchasePrice: dec("2.40"), SalePrice: dec("3.49"), Expiry: "2026-03-10", Status: domain.StatusActive},
	}

	s := New()
	for _, p := range seed {
		p.ID = uuid.NewString()
		s.products[p.ID] = p
	}
	return s
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *Store) Create(_ context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.Validate(product); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrDuplicateID
	}
	s.products[product.ID] = product
	created := product
	return &created, nil
}

func (s *Store) List(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Name == b.Name {
			return strings.Compare(a.ID, b.ID)
		}
		return strings.Compare(a.Name, b.Name)
	})

	return products, nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	found := product
	return &found, nil
}

func (s *Store) Update(_ context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.Validate(product); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}
