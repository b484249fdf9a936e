package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bazar/m/domain"
)

type productRepository struct {
	q sqlx.ExtContext
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	result, err := r.q.ExecContext(ctx, `INSERT INTO products (name, price, quantity) VALUES (?, ?, ?)`,
		product.Name, product.Price, product.Quantity)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	product.ID = id
	return nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := sqlx.GetContext(ctx, r.q, &product, `SELECT id, name, price, quantity FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.q, &products, `SELECT id, name, price, quantity FROM products ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) ListBelow(ctx context.Context, threshold int64) ([]domain.Product, error) {
	products := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.q, &products,
		`SELECT id, name, price, quantity FROM products WHERE quantity < ? ORDER BY quantity, id`, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) (bool, error) {
	result, err := r.q.ExecContext(ctx, `UPDATE products SET name = ?, price = ? WHERE id = ?`,
		product.Name, product.Price, product.ID)
	if err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}
	return affected(result)
}

func (r *productRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return affected(result)
}

func (r *productRepository) InUse(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM sale_items WHERE product_id = ?`, id); err != nil {
		return false, fmt.Errorf("count product sales: %w", err)
	}
	return count > 0, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id int64, quantity int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - ?
		WHERE id = ? AND quantity >= ?`,
		quantity, id, quantity,
	)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return affected(result)
}

func (r *productRepository) IncrementStock(ctx context.Context, id int64, quantity int64) error {
	result, err := r.q.ExecContext(ctx, `UPDATE products SET quantity = quantity + ? WHERE id = ?`, quantity, id)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("increment stock: product %d not found", id)
	}
	return nil
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}
