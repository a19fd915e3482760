package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

// Демо-каталог для локальной разработки. Идентификаторы фиксированные,
// чтобы повторный запуск не плодил дубликаты, а попадал в ветку
// "уже существует". Цены в минорных единицах.
var seedProducts = []domain.Product{
	{ID: "6f1f3f3a-0b63-4f8e-9d2a-6f51a1c20101", Name: "Keyboard TKL", PriceMinor: 459900, Quantity: 25},
	{ID: "6f1f3f3a-0b63-4f8e-9d2a-6f51a1c20102", Name: "Mouse Wireless", PriceMinor: 129900, Quantity: 40},
	{ID: "6f1f3f3a-0b63-4f8e-9d2a-6f51a1c20103", Name: "Monitor 27\"", PriceMinor: 1899900, Quantity: 10},
	{ID: "6f1f3f3a-0b63-4f8e-9d2a-6f51a1c20104", Name: "USB-C Dock", PriceMinor: 749900, Quantity: 15},
	{ID: "6f1f3f3a-0b63-4f8e-9d2a-6f51a1c20105", Name: "Webcam 1080p", PriceMinor: 349900, Quantity: 30},
}

var seedCustomers = []domain.Customer{
	{ID: "9c8d4a52-7e19-4b0e-8c3d-2f41b1d20201", Name: "Ivan Petrov", Email: "ivan.petrov@example.com"},
	{ID: "9c8d4a52-7e19-4b0e-8c3d-2f41b1d20202", Name: "Maria Sidorova", Email: "maria.sidorova@example.com"},
}

func main() {
	var dsn string
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: STOREFRONT_POSTGRES_DSN)")
	flag.Parse()

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("STOREFRONT_POSTGRES_DSN"))
	}
	if dsn == "" {
		fail("STOREFRONT_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		fail("ensure schema: %v", err)
	}

	created, err := seed(postgres.NewCustomerRepository(store), postgres.NewProductRepository(store))
	if err != nil {
		fail("seed failed: %v", err)
	}
	fmt.Printf("seed done: created=%d skipped=%d\n", created, len(seedCustomers)+len(seedProducts)-created)
}

// seed загружает демо-данные, пропуская уже существующие записи,
// и возвращает число созданных.
func seed(customers domain.CustomerRepository, products domain.ProductRepository) (int, error) {
	now := time.Now().UTC()
	created := 0

	for _, customer := range seedCustomers {
		customer.CreatedAt = now
		if err := customers.Create(customer); err != nil {
			if errors.Is(err, domain.ErrCustomerAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("create customer %s: %w", customer.Email, err)
		}
		created++
		fmt.Printf("customer %s id=%s\n", customer.Email, customer.ID)
	}

	for _, product := range seedProducts {
		product.CreatedAt = now
		product.UpdatedAt = now
		if err := products.Create(product); err != nil {
			if errors.Is(err, domain.ErrProductAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("create product %s: %w", product.Name, err)
		}
		created++
		fmt.Printf("product %s id=%s qty=%d\n", product.Name, product.ID, product.Quantity)
	}

	return created, nil
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
