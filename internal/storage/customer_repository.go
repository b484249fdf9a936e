package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bazar/m/domain"
)

type customerRepository struct {
	q sqlx.ExtContext
}

const customerColumns = `id, first_name, last_name, dni, address`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	result, err := r.q.ExecContext(ctx, `INSERT INTO customers (first_name, last_name, dni, address) VALUES (?, ?, ?, ?)`,
		customer.FirstName, customer.LastName, customer.DNI, customer.Address)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("customer id: %w", err)
	}
	customer.ID = id
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.getBy(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
}

func (r *customerRepository) GetByDNI(ctx context.Context, dni string) (*domain.Customer, error) {
	return r.getBy(ctx, `SELECT `+customerColumns+` FROM customers WHERE dni = ?`, dni)
}

func (r *customerRepository) getBy(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	err := sqlx.GetContext(ctx, r.q, &customer, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return &customer, nil
}

// List returns customers ordered by id; a non-positive limit returns them all.
func (r *customerRepository) List(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	customers := []domain.Customer{}
	if err := sqlx.SelectContext(ctx, r.q, &customers, query, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) (bool, error) {
	result, err := r.q.ExecContext(ctx, `UPDATE customers SET first_name = ?, last_name = ?, dni = ?, address = ? WHERE id = ?`,
		customer.FirstName, customer.LastName, customer.DNI, customer.Address, customer.ID)
	if err != nil {
		return false, fmt.Errorf("update customer: %w", err)
	}
	return affected(result)
}

func (r *customerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}
	return affected(result)
}

func (r *customerRepository) HasSales(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM sales WHERE customer_id = ?`, id); err != nil {
		return false, fmt.Errorf("count customer sales: %w", err)
	}
	return count > 0, nil
}
