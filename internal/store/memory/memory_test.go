package memory

import (
	"context"
	"errors"
	"testing"

	"invopos/backend/internal/domain"
	"invopos/backend/internal/store"
)

func TestListIsSortedByName(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, name := range []string{"Orange", "Apple", "Banana"} {
		_, err := s.Create(ctx, domain.Product{
			ID:        "id-" + name,
			Name:      name,
			SalePrice: dec("1.00"),
			Status:    domain.StatusActive,
		})
		if err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	products, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := make([]string, 0, len(products))
	for _, p := range products {
		got = append(got, p.Name)
	}
	want := []string{"Apple", "Banana", "Orange"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := domain.Product{ID: "p1", Name: "Apple", SalePrice: dec("2.99"), Status: domain.StatusActive}
	if _, err := s.Create(ctx, p); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := s.Create(ctx, p); !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestCreateRejectsInvalidStatus(t *testing.T) {
	s := New()

	_, err := s.Create(context.Background(), domain.Product{
		ID:        "p1",
		Name:      "Apple",
		SalePrice: dec("2.99"),
		Status:    "discontinued",
	})
	if !errors.Is(err, store.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	products, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("expected seeded products")
	}

	first := products[0]
	first.SalePrice = dec("9.99")
	updated, err := s.Update(ctx, first)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.SalePrice.Equal(dec("9.99")) {
		t.Fatalf("expected sale price 9.99, got %s", updated.SalePrice)
	}

	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
