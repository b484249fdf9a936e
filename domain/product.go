package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID       int64           `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Quantity int64           `db:"quantity" json:"quantity"`
}

// InStock reports whether at least one unit can be sold.
func (p Product) InStock() bool {
	return p.Quantity > 0
}
