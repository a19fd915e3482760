package kafka

import "time"

// EventType определяет тип события заказа.
type EventType string

const (
	EventTypeOrderCreated    EventType = "order.created"
	EventTypeCustomerCreated EventType = "customer.created"
)

// Topics для Kafka.
const (
	TopicOrderEvents     = "storefront.order.events"
	TopicDeadLetterQueue = "storefront.dlq" // Dead Letter Queue для failed messages
)

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType   EventType      `json:"event_type"`
	OrderID     string         `json:"order_id"`
	CustomerID  string         `json:"customer_id"`
	AmountMinor int64          `json:"amount_minor"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewOrderEvent создаёт новое событие заказа.
func NewOrderEvent(eventType EventType, orderID, customerID string, amountMinor int64, metadata map[string]any) *OrderEvent {
	return &OrderEvent{
		EventType:   eventType,
		OrderID:     orderID,
		CustomerID:  customerID,
		AmountMinor: amountMinor,
		Timestamp:   time.Now(),
		Metadata:    metadata,
	}
}
