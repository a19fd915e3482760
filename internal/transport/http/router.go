package http

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// NewRouter собирает mux внешнего API и оборачивает его логирующим middleware.
func NewRouter(customerSvc CustomerService, orderSvc OrderService, logger *log.Entry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /customers", HandleCreateCustomer(customerSvc))
	mux.HandleFunc("GET /customers/{id}", HandleGetCustomer(customerSvc))
	mux.HandleFunc("GET /customers/{id}/orders", HandleListCustomerOrders(orderSvc))
	mux.HandleFunc("POST /orders", HandleCreateOrder(orderSvc))
	mux.HandleFunc("GET /orders/{id}", HandleGetOrder(orderSvc))

	return RequestLogger(mux, logger)
}
