package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"bazar/m/domain"
)

type saleRepository struct {
	q sqlx.ExtContext
}

type saleRow struct {
	ID         int64           `db:"id"`
	Code       string          `db:"code"`
	SaleDate   string          `db:"sale_date"`
	Total      decimal.Decimal `db:"total"`
	CustomerID int64           `db:"customer_id"`
	FirstName  string          `db:"first_name"`
	LastName   string          `db:"last_name"`
	DNI        string          `db:"dni"`
	Address    string          `db:"address"`
}

type saleItemRow struct {
	SaleID    int64           `db:"sale_id"`
	LineNo    int             `db:"line_no"`
	ProductID int64           `db:"product_id"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Quantity  int64           `db:"quantity"`
}

const saleSelect = `SELECT s.id, s.code, s.sale_date, s.total, s.customer_id, c.first_name, c.last_name, c.dni, c.address
                FROM sales s
                JOIN customers c ON c.id = s.customer_id`

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	result, err := r.q.ExecContext(ctx, `INSERT INTO sales (code, sale_date, customer_id, total) VALUES (?, ?, ?, ?)`,
		sale.Code, sale.SaleDate, sale.Customer.ID, sale.Total)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	saleID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sale id: %w", err)
	}

	for i, product := range sale.Products {
		if _, err := r.q.ExecContext(ctx, `INSERT INTO sale_items (sale_id, line_no, product_id, unit_price) VALUES (?, ?, ?, ?)`,
			saleID, i, product.ID, product.Price); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}

	sale.ID = saleID
	return nil
}

func (r *saleRepository) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	sales, err := r.load(ctx, saleSelect+` WHERE s.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, nil
	}
	return &sales[0], nil
}

func (r *saleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	return r.load(ctx, saleSelect+` ORDER BY s.id`)
}

func (r *saleRepository) ListByDate(ctx context.Context, date string) ([]domain.Sale, error) {
	return r.load(ctx, saleSelect+` WHERE s.sale_date = ? ORDER BY s.id`, date)
}

func (r *saleRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = ?`, id); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// load runs a sale query and attaches every sale's product lines in one extra round trip.
func (r *saleRepository) load(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	var rows []saleRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	sales := make([]domain.Sale, len(rows))
	if len(rows) == 0 {
		return sales, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	itemsQuery, itemsArgs, err := sqlx.In(`SELECT si.sale_id, si.line_no, si.product_id, si.unit_price, p.name, p.quantity
                FROM sale_items si
                JOIN products p ON p.id = si.product_id
                WHERE si.sale_id IN (?)
                ORDER BY si.sale_id, si.line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare sale items query: %w", err)
	}
	itemsQuery = r.q.Rebind(itemsQuery)

	var items []saleItemRow
	if err := sqlx.SelectContext(ctx, r.q, &items, itemsQuery, itemsArgs...); err != nil {
		return nil, fmt.Errorf("query sale items: %w", err)
	}
	productsBySale := make(map[int64][]domain.Product)
	for _, item := range items {
		productsBySale[item.SaleID] = append(productsBySale[item.SaleID], domain.Product{
			ID:       item.ProductID,
			Name:     item.Name,
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
		})
	}

	for i, row := range rows {
		products := productsBySale[row.ID]
		if products == nil {
			products = []domain.Product{}
		}
		sales[i] = domain.Sale{
			ID:       row.ID,
			Code:     row.Code,
			SaleDate: row.SaleDate,
			Total:    row.Total,
			Customer: domain.Customer{
				ID:        row.CustomerID,
				FirstName: row.FirstName,
				LastName:  row.LastName,
				DNI:       row.DNI,
				Address:   row.Address,
			},
			Products: products,
		}
	}
	return sales, nil
}
