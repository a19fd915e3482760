package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/customers"
)

// CustomerService — минимальный интерфейс сервиса покупателей для транспорта.
type CustomerService interface {
	CreateCustomer(input customers.CreateCustomerInput) (domain.Customer, error)
	GetCustomer(id string) (domain.Customer, error)
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerResponse(customer domain.Customer) customerResponse {
	return customerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
	}
}

// HandleCreateCustomer возвращает handler для POST /customers.
func HandleCreateCustomer(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCustomerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		customer, err := svc.CreateCustomer(customers.CreateCustomerInput{
			Name:  strings.TrimSpace(req.Name),
			Email: strings.TrimSpace(req.Email),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCustomerResponse(customer))
	}
}

// HandleGetCustomer возвращает handler для GET /customers/{id}.
func HandleGetCustomer(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := svc.GetCustomer(r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCustomerResponse(customer))
	}
}
