package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/orders"
)

// OrderService — минимальный интерфейс сервиса заказов для транспорта.
type OrderService interface {
	CreateOrder(input orders.CreateOrderInput) (domain.Order, error)
	GetOrder(id string) (domain.Order, error)
	ListOrders(customerID string, limit int) ([]domain.Order, error)
}

type createOrderRequest struct {
	CustomerID string                   `json:"customer_id"`
	Products   []createOrderItemRequest `json:"products"`
}

type createOrderItemRequest struct {
	ID       string `json:"id"`
	Quantity int32  `json:"quantity"`
}

type orderItemResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Quantity   int32     `json:"quantity"`
	PriceMinor int64     `json:"price_minor"`
	CreatedAt  time.Time `json:"created_at"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customer_id"`
	AmountMinor int64               `json:"amount_minor"`
	Items       []orderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Qty,
			PriceMinor: item.PriceMinor,
			CreatedAt:  item.CreatedAt,
		})
	}
	return orderResponse{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		AmountMinor: order.AmountMinor,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
}

// HandleCreateOrder возвращает handler для POST /orders.
func HandleCreateOrder(svc OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		items := make([]orders.ItemRequest, 0, len(req.Products))
		for _, product := range req.Products {
			items = append(items, orders.ItemRequest{
				ProductID: product.ID,
				Qty:       product.Quantity,
			})
		}

		order, err := svc.CreateOrder(orders.CreateOrderInput{
			CustomerID: req.CustomerID,
			Items:      items,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

// HandleGetOrder возвращает handler для GET /orders/{id}.
func HandleGetOrder(svc OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.GetOrder(r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

// HandleListCustomerOrders возвращает handler для GET /customers/{id}/orders.
func HandleListCustomerOrders(svc OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}

		list, err := svc.ListOrders(r.PathValue("id"), limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]orderResponse, 0, len(list))
		for _, order := range list {
			resp = append(resp, toOrderResponse(order))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
