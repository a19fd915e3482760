package orders

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

const defaultListOrdersLimit = 100

// Service реализует workflow создания и чтения заказов поверх доменных
// репозиториев: проверка покупателя, проверка остатков, снимок цен,
// списание склада и сохранение агрегата.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// ItemRequest описывает одну запрошенную позицию будущего заказа.
type ItemRequest struct {
	ProductID string
	Qty       int32
}

// CreateOrderInput — вход workflow создания заказа.
type CreateOrderInput struct {
	CustomerID string
	Items      []ItemRequest
}

// NewService конструирует сервис заказов с зависимостями.
// outbox опционален: при nil события заказов не публикуются.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	svc := newService(customers, products, orders, outbox, logger)
	svc.metrics = metrics.NewOrderMetrics()
	return svc
}

// NewServiceWithoutMetrics конструирует сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	return newService(customers, products, orders, outbox, logger)
}

func newService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		outbox:    outbox,
		logger:    logger,
	}
}

// CreateOrder проводит заказ целиком: валидация, снимок цен, списание
// остатков и сохранение агрегата. Любая доменная ошибка прерывает workflow
// до первого побочного эффекта; ошибки нехватки и отсутствия товара всегда
// указывают на первую проблемную позицию в порядке запроса.
func (s *Service) CreateOrder(input CreateOrderInput) (domain.Order, error) {
	start := time.Now()

	order, err := s.createOrder(input)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordOrderRejected(rejectReason(err))
		}
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(len(order.Items))
		s.metrics.RecordCreateDuration(time.Since(start))
	}
	return order, nil
}

func (s *Service) createOrder(input CreateOrderInput) (domain.Order, error) {
	if input.CustomerID == "" {
		return domain.Order{}, domain.ErrCustomerRequired
	}
	if len(input.Items) == 0 {
		return domain.Order{}, domain.ErrItemsRequired
	}
	// Неположительное количество отклоняем явно: "списание" отрицательного
	// количества увеличивало бы остаток.
	for _, item := range input.Items {
		if item.ProductID == "" {
			return domain.Order{}, domain.ErrItemProductRequired
		}
		if item.Qty <= 0 {
			return domain.Order{}, domain.ErrItemQtyInvalid
		}
	}

	customer, err := s.customers.Get(input.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Order{}, domain.ErrCustomerNotFound
		}
		return domain.Order{}, err
	}

	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}

	found, err := s.products.GetMany(ids)
	if err != nil {
		return domain.Order{}, err
	}
	if len(found) == 0 {
		return domain.Order{}, domain.ErrNoProductsFound
	}

	byID := make(map[string]domain.Product, len(found))
	for _, product := range found {
		byID[product.ID] = product
	}

	// Отсутствующие товары и нехватку остатка сообщаем по первой проблемной
	// позиции в порядке запроса.
	for _, item := range input.Items {
		if _, ok := byID[item.ProductID]; !ok {
			return domain.Order{}, &domain.ProductNotFoundError{ProductID: item.ProductID}
		}
	}
	for _, item := range input.Items {
		if item.Qty > byID[item.ProductID].Quantity {
			return domain.Order{}, &domain.InsufficientStockError{ProductID: item.ProductID, Qty: item.Qty}
		}
	}

	now := time.Now().UTC()
	items := make([]domain.OrderItem, 0, len(input.Items))
	adjustments := make([]domain.StockAdjustment, 0, len(input.Items))
	var amountSum int64
	for _, item := range input.Items {
		product := byID[item.ProductID]
		items = append(items, domain.OrderItem{
			ID:         uuid.NewString(),
			ProductID:  product.ID,
			Qty:        item.Qty,
			PriceMinor: product.PriceMinor,
			CreatedAt:  now,
		})
		adjustments = append(adjustments, domain.StockAdjustment{ProductID: product.ID, Qty: item.Qty})
		amountSum += int64(item.Qty) * product.PriceMinor
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		AmountMinor: amountSum,
		Items:       items,
		CreatedAt:   now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	// Списываем остатки до вставки агрегата: условный UPDATE гарантирует, что
	// проигравший гонку конкурентный заказ получит ErrInsufficientStock вместо
	// ухода остатка в минус.
	if err := s.products.DecrementStock(adjustments); err != nil {
		return domain.Order{}, err
	}

	if err := s.orders.Create(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist order")
		if restoreErr := s.products.RestoreStock(adjustments); restoreErr != nil {
			s.logger.WithError(restoreErr).WithField("order_id", order.ID).Error("failed to restore stock after create failure")
		}
		return domain.Order{}, err
	}

	s.emitOrderCreated(order)
	if s.metrics != nil {
		s.metrics.RecordStockDecremented(adjustments)
	}

	return order, nil
}

// GetOrder возвращает агрегат заказа по идентификатору.
func (s *Service) GetOrder(id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return s.orders.Get(id)
}

// ListOrders возвращает заказы покупателя, самые свежие первыми.
func (s *Service) ListOrders(customerID string, limit int) ([]domain.Order, error) {
	if customerID == "" {
		return nil, domain.ErrCustomerRequired
	}
	if limit <= 0 {
		limit = defaultListOrdersLimit
	}
	return s.orders.ListByCustomer(customerID, limit)
}

func (s *Service) emitOrderCreated(order domain.Order) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, order.CustomerID, order.AmountMinor,
		map[string]any{"items_count": len(order.Items)})
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("marshal order event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(kafka.EventTypeOrderCreated),
		Payload:       payload,
	}
	if _, err := s.outbox.Enqueue(msg); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("enqueue order event failed")
	} else if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrNoProductsFound):
		return "no_products_found"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrItemsRequired),
		errors.Is(err, domain.ErrItemProductRequired),
		errors.Is(err, domain.ErrItemQtyInvalid):
		return "invalid_request"
	default:
		return "internal"
	}
}
