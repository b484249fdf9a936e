package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bazar/m/internal/port"
)

// Store implements port.Store on top of sqlx. The zero-value tx means the
// repositories run directly against the pool.
type Store struct {
	db *sqlx.DB
	q  sqlx.ExtContext
	tx *sqlx.Tx
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Products() port.ProductRepository {
	return &productRepository{q: s.q}
}

func (s *Store) Customers() port.CustomerRepository {
	return &customerRepository{q: s.q}
}

func (s *Store) Sales() port.SaleRepository {
	return &saleRepository{q: s.q}
}

func (s *Store) Users() port.UserRepository {
	return &userRepository{q: s.q}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx port.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
