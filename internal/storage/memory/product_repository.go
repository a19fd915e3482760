package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
// Проверка и списание остатка выполняются под одной блокировкой, поэтому
// остаток не может уйти в минус даже при конкурентных заказах.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар, если ID ещё не занят.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrProductAlreadyExists
	}
	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, &domain.ProductNotFoundError{ProductID: id}
	}
	return product, nil
}

// GetMany возвращает найденные товары, молча пропуская отсутствующие ID.
func (r *productRepositoryInMemory) GetMany(ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if product, ok := r.items[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

// DecrementStock списывает остатки батчем: либо все позиции, либо ни одной.
func (r *productRepositoryInMemory) DecrementStock(items []domain.StockAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Списание накапливается в staged и применяется только после проверки
	// всего батча. Повторение одного ProductID в батче учитывается корректно.
	staged := make(map[string]domain.Product, len(items))
	for _, adj := range items {
		product, ok := staged[adj.ProductID]
		if !ok {
			product, ok = r.items[adj.ProductID]
			if !ok {
				return &domain.ProductNotFoundError{ProductID: adj.ProductID}
			}
		}
		if product.Quantity < adj.Qty {
			return &domain.InsufficientStockError{ProductID: adj.ProductID, Qty: adj.Qty}
		}
		product.Quantity -= adj.Qty
		staged[adj.ProductID] = product
	}

	now := time.Now().UTC()
	for id, product := range staged {
		product.UpdatedAt = now
		r.items[id] = product
	}
	return nil
}

// RestoreStock возвращает списанные остатки (компенсация неуспешного заказа).
func (r *productRepositoryInMemory) RestoreStock(items []domain.StockAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, adj := range items {
		product, ok := r.items[adj.ProductID]
		if !ok {
			return &domain.ProductNotFoundError{ProductID: adj.ProductID}
		}
		product.Quantity += adj.Qty
		product.UpdatedAt = now
		r.items[adj.ProductID] = product
	}
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
