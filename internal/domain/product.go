package domain

import "time"

// Product описывает товар и его складской остаток.
type Product struct {
	ID   string
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах (например, копейки).
	PriceMinor int64
	// Quantity — доступный остаток на складе. Инвариант: никогда не уходит в минус.
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты товара.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}
	if p.Quantity < 0 {
		errs = append(errs, ErrProductQuantityNegative)
	}

	return errs
}

// StockAdjustment описывает изменение остатка одного товара.
// Qty всегда положительный; направление задаёт операция хранилища.
type StockAdjustment struct {
	ProductID string
	Qty       int32
}
