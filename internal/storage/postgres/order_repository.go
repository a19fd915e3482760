package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	sqlOrderInsert = `
		INSERT INTO orders (id, customer_id, amount_minor, created_at)
		VALUES ($1, $2, $3, $4)`

	sqlOrderItemInsert = `
		INSERT INTO order_items (id, order_id, product_id, qty, price_minor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	sqlOrderByID = `
		SELECT id, customer_id, amount_minor, created_at
		FROM orders
		WHERE id = $1`

	sqlOrdersByCustomer = `
		SELECT id, customer_id, amount_minor, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`

	sqlItemsByOrder = `
		SELECT id, product_id, qty, price_minor, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id`
)

// orderRepository пишет заказ и его позиции в orders/order_items.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

var _ domain.OrderRepository = (*orderRepository)(nil)

// Create сохраняет заказ вместе с позициями в одной транзакции.
func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := insertOrderTx(ctx, tx, order); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	return nil
}

func insertOrderTx(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	_, err := tx.ExecContext(ctx, sqlOrderInsert,
		order.ID, order.CustomerID, order.AmountMinor, order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqlOrderItemInsert)
	if err != nil {
		return fmt.Errorf("prepare order item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range order.Items {
		_, err := stmt.ExecContext(ctx,
			item.ID, order.ID, item.ProductID, item.Qty, item.PriceMinor, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", item.ProductID, err)
		}
	}
	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, sqlOrderByID, id)

	var order domain.Order
	if err := row.Scan(&order.ID, &order.CustomerID, &order.AmountMinor, &order.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.itemsForOrder(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return order, nil
}

// ListByCustomer возвращает заказы покупателя от новых к старым.
// limit<=0 снимает ограничение на размер выборки.
func (r *orderRepository) ListByCustomer(customerID string, limit int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := sqlOrdersByCustomer
	args := []any{customerID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.AmountMinor, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		items, err := r.itemsForOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *orderRepository) itemsForOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, sqlItemsByOrder, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Qty, &item.PriceMinor, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}
