package customers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestCreateCustomer(t *testing.T) {
	svc := NewService(memory.NewCustomerRepository(), nil, nil)

	customer, err := svc.CreateCustomer(CreateCustomerInput{
		Name:  "Maria Sidorova",
		Email: "maria.sidorova@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, customer.ID)
	require.Equal(t, "Maria Sidorova", customer.Name)
	require.False(t, customer.CreatedAt.IsZero())

	stored, err := svc.GetCustomer(customer.ID)
	require.NoError(t, err)
	require.Equal(t, customer.ID, stored.ID)
	require.Equal(t, customer.Email, stored.Email)
}

func TestCreateCustomer_Validation(t *testing.T) {
	svc := NewService(memory.NewCustomerRepository(), nil, nil)

	tests := []struct {
		name    string
		input   CreateCustomerInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   CreateCustomerInput{Email: "a@example.com"},
			wantErr: domain.ErrCustomerNameRequired,
		},
		{
			name:    "empty email",
			input:   CreateCustomerInput{Name: "Ivan"},
			wantErr: domain.ErrCustomerEmailRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateCustomer_EnqueuesOutboxEvent(t *testing.T) {
	outbox := memory.NewOutboxRepository()
	svc := NewService(memory.NewCustomerRepository(), outbox, nil)

	customer, err := svc.CreateCustomer(CreateCustomerInput{
		Name:  "Ivan Petrov",
		Email: "ivan.petrov@example.com",
	})
	require.NoError(t, err)

	pending, err := outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, string(kafka.EventTypeCustomerCreated), pending[0].EventType)
	require.Equal(t, "customer", pending[0].AggregateType)
	require.Equal(t, customer.ID, pending[0].AggregateID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(pending[0].Payload, &payload))
	require.Equal(t, customer.ID, payload["customer_id"])
	require.Equal(t, customer.Email, payload["email"])
}

func TestCreateCustomer_ValidationSkipsOutbox(t *testing.T) {
	outbox := memory.NewOutboxRepository()
	svc := NewService(memory.NewCustomerRepository(), outbox, nil)

	_, err := svc.CreateCustomer(CreateCustomerInput{Email: "a@example.com"})
	require.Error(t, err)

	pending, err := outbox.PullPending(10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestGetCustomer_NotFound(t *testing.T) {
	svc := NewService(memory.NewCustomerRepository(), nil, nil)

	_, err := svc.GetCustomer("missing")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = svc.GetCustomer("")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}
