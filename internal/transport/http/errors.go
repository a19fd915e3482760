package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidRequest     = "invalid_request"
	codeCustomerNotFound   = "customer_not_found"
	codeCustomerExists     = "customer_already_exists"
	codeOrderNotFound      = "order_not_found"
	codeNoProductsFound    = "no_products_found"
	codeProductNotFound    = "product_not_found"
	codeInsufficientStock  = "insufficient_stock"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError транслирует доменную ошибку в HTTP-статус и {error, code}.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, codeCustomerNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case errors.Is(err, domain.ErrNoProductsFound):
		writeError(w, http.StatusNotFound, codeNoProductsFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, codeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrCustomerAlreadyExists):
		writeError(w, http.StatusConflict, codeCustomerExists, err.Error())
	case errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrItemsRequired),
		errors.Is(err, domain.ErrItemProductRequired),
		errors.Is(err, domain.ErrItemQtyInvalid),
		errors.Is(err, domain.ErrCustomerNameRequired),
		errors.Is(err, domain.ErrCustomerEmailRequired):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
