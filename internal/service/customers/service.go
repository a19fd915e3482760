package customers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
)

// Service реализует создание и чтение покупателей. Тонкий слой: вся его
// работа — валидация, делегирование в репозиторий и событие о регистрации.
type Service struct {
	customers domain.CustomerRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
}

// CreateCustomerInput — вход операции создания покупателя.
type CreateCustomerInput struct {
	Name  string
	Email string
}

// NewService конструирует сервис покупателей.
// outbox опционален: при nil события о регистрации не публикуются.
func NewService(customers domain.CustomerRepository, outbox domain.OutboxRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "customers")
	}
	return &Service{customers: customers, outbox: outbox, logger: logger}
}

// CreateCustomer сохраняет нового покупателя с сгенерированным идентификатором.
func (s *Service) CreateCustomer(input CreateCustomerInput) (domain.Customer, error) {
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		CreatedAt: time.Now().UTC(),
	}

	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		return domain.Customer{}, errs[0]
	}

	if err := s.customers.Create(customer); err != nil {
		s.logger.WithError(err).Error("failed to create customer")
		return domain.Customer{}, err
	}

	s.emitCustomerCreated(customer)
	return customer, nil
}

// GetCustomer возвращает покупателя по идентификатору.
func (s *Service) GetCustomer(id string) (domain.Customer, error) {
	if id == "" {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return s.customers.Get(id)
}

func (s *Service) emitCustomerCreated(customer domain.Customer) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"event_type":  kafka.EventTypeCustomerCreated,
		"customer_id": customer.ID,
		"email":       customer.Email,
		"timestamp":   customer.CreatedAt,
	})
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customer.ID).Error("marshal customer event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: "customer",
		AggregateID:   customer.ID,
		EventType:     string(kafka.EventTypeCustomerCreated),
		Payload:       payload,
	}
	if _, err := s.outbox.Enqueue(msg); err != nil {
		s.logger.WithError(err).WithField("customer_id", customer.ID).Error("enqueue customer event failed")
	}
}
