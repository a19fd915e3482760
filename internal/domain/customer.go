package domain

import "time"

// Customer описывает покупателя магазина.
// Заказной workflow только ссылается на покупателя и никогда его не меняет.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// ValidateInvariants проверяет обязательные поля покупателя.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}

	return errs
}
