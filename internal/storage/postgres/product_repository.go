package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price_minor, quantity, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		product.ID, product.Name, product.PriceMinor, product.Quantity,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProductAlreadyExists
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price_minor, quantity, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&product.ID, &product.Name, &product.PriceMinor, &product.Quantity,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, &domain.ProductNotFoundError{ProductID: id}
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

func (r *productRepository) GetMany(ids []string) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price_minor, quantity, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select products batch: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.PriceMinor, &product.Quantity,
			&product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return result, nil
}

// DecrementStock списывает остатки батчем в одной транзакции. Каждая позиция
// защищена условием quantity >= qty: при нехватке остатка UPDATE не затрагивает
// строку, транзакция откатывается и остатки не уходят в минус даже при гонке
// конкурентных заказов.
func (r *productRepository) DecrementStock(items []domain.StockAdjustment) error {
	return r.adjustStock(items, `
		UPDATE products
		SET quantity = quantity - $2,
		    updated_at = $3
		WHERE id = $1
		  AND quantity >= $2
	`, true)
}

// RestoreStock возвращает остатки обратно (компенсация неуспешного заказа).
func (r *productRepository) RestoreStock(items []domain.StockAdjustment) error {
	return r.adjustStock(items, `
		UPDATE products
		SET quantity = quantity + $2,
		    updated_at = $3
		WHERE id = $1
	`, false)
}

func (r *productRepository) adjustStock(items []domain.StockAdjustment, query string, guarded bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, adj := range items {
		var res sql.Result
		res, err = tx.ExecContext(ctx, query, adj.ProductID, adj.Qty, now)
		if err != nil {
			return fmt.Errorf("adjust stock for %s: %w", adj.ProductID, err)
		}

		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected for %s: %w", adj.ProductID, err)
		}
		if affected == 0 {
			exists, existsErr := r.productExistsTx(ctx, tx, adj.ProductID)
			if existsErr != nil {
				err = existsErr
				return err
			}
			if !exists {
				err = &domain.ProductNotFoundError{ProductID: adj.ProductID}
				return err
			}
			if guarded {
				err = &domain.InsufficientStockError{ProductID: adj.ProductID, Qty: adj.Qty}
				return err
			}
			err = fmt.Errorf("adjust stock for %s: no rows affected", adj.ProductID)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit stock adjustment: %w", err)
	}

	return nil
}

func (r *productRepository) productExistsTx(ctx context.Context, tx *sql.Tx, productID string) (bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1`, productID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check product exists: %w", err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.ProductRepository = (*productRepository)(nil)
