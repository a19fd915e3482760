package memory

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func newOrder(id, customerID string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:          id,
		CustomerID:  customerID,
		AmountMinor: 100,
		Items: []domain.OrderItem{
			{ID: id + "-item", ProductID: "p1", Qty: 1, PriceMinor: 100, CreatedAt: createdAt},
		},
		CreatedAt: createdAt,
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	repo := NewOrderRepository()
	now := time.Now().UTC()

	if err := repo.Create(newOrder("o1", "c1", now)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(newOrder("o1", "c1", now)); !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Errorf("expected ErrOrderAlreadyExists, got %v", err)
	}

	order, err := repo.Get("o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(order.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(order.Items))
	}

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_GetReturnsCopy(t *testing.T) {
	repo := NewOrderRepository()
	now := time.Now().UTC()
	if err := repo.Create(newOrder("o1", "c1", now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := repo.Get("o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Items[0].Qty = 99

	second, err := repo.Get("o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.Items[0].Qty != 1 {
		t.Errorf("stored order mutated through returned slice: qty=%d", second.Items[0].Qty)
	}
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	repo := NewOrderRepository()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		order := newOrder(fmt.Sprintf("o%d", i), "c1", base.Add(time.Duration(i)*time.Second))
		if err := repo.Create(order); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Create(newOrder("other", "c2", base)); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListByCustomer("c1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("expected 5 orders, got %d", len(list))
	}

	// Самые свежие первыми.
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Errorf("orders are not sorted newest first at index %d", i)
		}
	}

	limited, err := repo.ListByCustomer("c1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 orders, got %d", len(limited))
	}
	if limited[0].ID != "o4" {
		t.Errorf("expected newest order o4 first, got %s", limited[0].ID)
	}
}
