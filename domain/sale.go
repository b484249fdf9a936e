package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage and wire format of a sale date.
const DateLayout = "2006-01-02"

// Sale links one customer to the ordered list of products sold to them.
// Products keep duplicates: every occurrence is one unit sold.
type Sale struct {
	ID       int64           `db:"id" json:"id"`
	Code     string          `db:"code" json:"code"`
	SaleDate string          `db:"sale_date" json:"sale_date"`
	Total    decimal.Decimal `db:"total" json:"total"`
	Customer Customer        `db:"-" json:"customer"`
	Products []Product       `db:"-" json:"products"`
}

// ComputeTotal returns the sum of the product prices.
func (s Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Products {
		total = total.Add(p.Price)
	}
	return total
}

// FormatDate renders t as a sale date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SaleSummary is the short projection returned by the highest-value query.
type SaleSummary struct {
	SaleID            int64           `json:"sale_id"`
	Total             decimal.Decimal `json:"total"`
	ItemCount         int             `json:"item_count"`
	CustomerFirstName string          `json:"customer_first_name"`
	CustomerLastName  string          `json:"customer_last_name"`
}

type DailySales struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	SalesCount int             `json:"sales_count"`
}
