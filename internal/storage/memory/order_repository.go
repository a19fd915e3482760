package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderStore держит заказы в map под RWMutex.
// Подходит для локальной разработки и тестов.
type orderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewOrderRepository возвращает in-memory реализацию OrderRepository.
func NewOrderRepository() domain.OrderRepository {
	return &orderStore{orders: make(map[string]domain.Order)}
}

var _ domain.OrderRepository = (*orderStore)(nil)

// Create сохраняет заказ, если ID ещё не занят.
func (s *orderStore) Create(order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.orders[order.ID]; taken {
		return domain.ErrOrderAlreadyExists
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

// Get возвращает копию заказа или ErrOrderNotFound.
func (s *orderStore) Get(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// ListByCustomer возвращает заказы покупателя от новых к старым.
// limit<=0 снимает ограничение на размер выборки.
func (s *orderStore) ListByCustomer(customerID string, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			matched = append(matched, cloneOrder(order))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// cloneOrder копирует заказ вместе со слайсом позиций,
// чтобы мутации у вызывающего не трогали хранилище.
func cloneOrder(order domain.Order) domain.Order {
	if len(order.Items) == 0 {
		return order
	}
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}
