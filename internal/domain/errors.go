package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one product")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("amount_minor must be non-negative")
	// Ошибка отсутствующего товара в позиции заказа.
	ErrItemProductRequired = errors.New("item product_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order amount does not match items sum")
	// Ошибка отсутствующего имени покупателя.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего email покупателя.
	ErrCustomerEmailRequired = errors.New("customer email is required")
	// Ошибка отсутствующего названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceInvalid = errors.New("product price must be non-negative")
	// Ошибка отрицательного остатка товара.
	ErrProductQuantityNegative = errors.New("product quantity must be non-negative")

	// ErrCustomerNotFound возвращается, если покупатель не найден.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerAlreadyExists сигнализирует о конфликте идентификаторов покупателей.
	ErrCustomerAlreadyExists = errors.New("customer already exists")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists сигнализирует о конфликте идентификаторов заказов.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrProductAlreadyExists сигнализирует о конфликте идентификаторов товаров.
	ErrProductAlreadyExists = errors.New("product already exists")
	// ErrNoProductsFound — ни один из запрошенных товаров не существует.
	ErrNoProductsFound = errors.New("could not find any products")
	// ErrProductNotFound — конкретный запрошенный товар не существует.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock — запрошенное количество превышает остаток на складе.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// ProductNotFoundError уточняет ErrProductNotFound идентификатором первого
// отсутствующего товара в порядке запроса.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("could not find product %s", e.ProductID)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrProductNotFound).
func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// InsufficientStockError уточняет ErrInsufficientStock первой позицией запроса,
// для которой не хватило остатка.
type InsufficientStockError struct {
	ProductID string
	Qty       int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("the quantity %d is not available for %s", e.Qty, e.ProductID)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsNotFound проверяет, относится ли ошибка к семейству "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrNoProductsFound)
}
