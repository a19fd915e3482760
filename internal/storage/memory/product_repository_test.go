package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func newProduct(id string, priceMinor int64, quantity int32) domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:         id,
		Name:       "product-" + id,
		PriceMinor: priceMinor,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestProductRepository_CreateAndGet(t *testing.T) {
	repo := NewProductRepository()

	if err := repo.Create(newProduct("p1", 100, 5)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(newProduct("p1", 100, 5)); !errors.Is(err, domain.ErrProductAlreadyExists) {
		t.Errorf("expected ErrProductAlreadyExists, got %v", err)
	}

	product, err := repo.Get("p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if product.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", product.Quantity)
	}

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_GetMany(t *testing.T) {
	repo := NewProductRepository()
	if err := repo.Create(newProduct("p1", 100, 5)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(newProduct("p2", 200, 3)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Отсутствующие и повторяющиеся ID не считаются ошибкой.
	found, err := repo.GetMany([]string{"p1", "p2", "p1", "missing"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 products, got %d", len(found))
	}
}

func TestProductRepository_DecrementStock(t *testing.T) {
	repo := NewProductRepository()
	if err := repo.Create(newProduct("p1", 100, 5)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(newProduct("p2", 200, 2)); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := repo.DecrementStock([]domain.StockAdjustment{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 1},
	})
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}

	p1, _ := repo.Get("p1")
	p2, _ := repo.Get("p2")
	if p1.Quantity != 3 || p2.Quantity != 1 {
		t.Errorf("expected quantities 3 and 1, got %d and %d", p1.Quantity, p2.Quantity)
	}
}

func TestProductRepository_DecrementStock_AllOrNothing(t *testing.T) {
	repo := NewProductRepository()
	if err := repo.Create(newProduct("p1", 100, 5)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(newProduct("p2", 200, 2)); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := repo.DecrementStock([]domain.StockAdjustment{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 3},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Первая позиция тоже не списана.
	p1, _ := repo.Get("p1")
	if p1.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", p1.Quantity)
	}
}

func TestProductRepository_DecrementStock_DuplicateIDs(t *testing.T) {
	repo := NewProductRepository()
	if err := repo.Create(newProduct("p1", 100, 3)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Сумма по повторяющимся позициям превышает остаток.
	err := repo.DecrementStock([]domain.StockAdjustment{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p1", Qty: 2},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	p1, _ := repo.Get("p1")
	if p1.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", p1.Quantity)
	}

	// В пределах остатка повторяющиеся позиции списываются суммарно.
	err = repo.DecrementStock([]domain.StockAdjustment{
		{ProductID: "p1", Qty: 1},
		{ProductID: "p1", Qty: 2},
	})
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	p1, _ = repo.Get("p1")
	if p1.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", p1.Quantity)
	}
}

func TestProductRepository_DecrementStock_UnknownProduct(t *testing.T) {
	repo := NewProductRepository()

	err := repo.DecrementStock([]domain.StockAdjustment{{ProductID: "missing", Qty: 1}})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_RestoreStock(t *testing.T) {
	repo := NewProductRepository()
	if err := repo.Create(newProduct("p1", 100, 2)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.RestoreStock([]domain.StockAdjustment{{ProductID: "p1", Qty: 3}}); err != nil {
		t.Fatalf("restore: %v", err)
	}

	p1, _ := repo.Get("p1")
	if p1.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", p1.Quantity)
	}
}

func TestProductRepository_ConcurrentDecrement(t *testing.T) {
	repo := NewProductRepository()
	if err := repo.Create(newProduct("p1", 100, 50)); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.DecrementStock([]domain.StockAdjustment{{ProductID: "p1", Qty: 1}}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 50 {
		t.Errorf("expected exactly 50 successful decrements, got %d", succeeded)
	}
	p1, _ := repo.Get("p1")
	if p1.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", p1.Quantity)
	}
}
