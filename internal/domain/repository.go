package domain

// CustomerRepository описывает требования к хранилищу покупателей.
type CustomerRepository interface {
	// Create сохраняет нового покупателя. Возвращает ошибку, если ID уже занят.
	Create(customer Customer) error
	// Get возвращает покупателя по идентификатору или ErrCustomerNotFound.
	Get(id string) (Customer, error)
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ошибку, если ID уже занят.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// GetMany возвращает товары по списку идентификаторов одним запросом.
	// Отсутствующие идентификаторы молча пропускаются: решение о том, что
	// считать ошибкой, принимает вызывающий workflow.
	GetMany(ids []string) ([]Product, error)
	// DecrementStock уменьшает остатки батчем в одной транзакции.
	// Операция условная: остаток не может уйти в минус, при нехватке любой
	// позиции весь батч отклоняется с ErrInsufficientStock.
	DecrementStock(items []StockAdjustment) error
	// RestoreStock возвращает остатки обратно (компенсация неуспешного заказа).
	RestoreStock(items []StockAdjustment) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями как единый агрегат.
	// Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ c позициями или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByCustomer возвращает заказы покупателя с опциональным ограничением на количество.
	ListByCustomer(customerID string, limit int) ([]Order, error)
}
