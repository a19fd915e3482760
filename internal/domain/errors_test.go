package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestProductNotFoundError_Is(t *testing.T) {
	err := &domain.ProductNotFoundError{ProductID: "p-42"}

	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatal("expected errors.Is to match ErrProductNotFound")
	}
	if !strings.Contains(err.Error(), "p-42") {
		t.Fatalf("expected product id in message, got %q", err.Error())
	}

	var typed *domain.ProductNotFoundError
	if !errors.As(err, &typed) || typed.ProductID != "p-42" {
		t.Fatalf("expected errors.As to recover product id, got %+v", typed)
	}
}

func TestInsufficientStockError_Is(t *testing.T) {
	err := &domain.InsufficientStockError{ProductID: "p-7", Qty: 3}

	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatal("expected errors.Is to match ErrInsufficientStock")
	}
	if !strings.Contains(err.Error(), "3") || !strings.Contains(err.Error(), "p-7") {
		t.Fatalf("expected qty and product id in message, got %q", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "customer", err: domain.ErrCustomerNotFound, want: true},
		{name: "order", err: domain.ErrOrderNotFound, want: true},
		{name: "product typed", err: &domain.ProductNotFoundError{ProductID: "x"}, want: true},
		{name: "no products", err: domain.ErrNoProductsFound, want: true},
		{name: "stock", err: domain.ErrInsufficientStock, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.IsNotFound(tc.err); got != tc.want {
				t.Fatalf("IsNotFound(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
