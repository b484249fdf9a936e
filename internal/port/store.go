package port

import (
	"context"

	"bazar/m/domain"
)

// Lookups return nil, nil when the row does not exist.

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListBelow(ctx context.Context, threshold int64) ([]domain.Product, error)
	// Update changes name and price only; stock moves through sales and restocks
	Update(ctx context.Context, product domain.Product) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	InUse(ctx context.Context, id int64) (bool, error)

	// DecrementStock atomically decreases stock, returns false if insufficient
	DecrementStock(ctx context.Context, id int64, quantity int64) (bool, error)

	// IncrementStock restores stock (sale cancellation) or adds a delivery
	IncrementStock(ctx context.Context, id int64, quantity int64) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	GetByDNI(ctx context.Context, dni string) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	HasSales(ctx context.Context, id int64) (bool, error)
}

type SaleRepository interface {
	// Create persists the sale with its ordered product lines and sets sale.ID
	Create(ctx context.Context, sale *domain.Sale) error
	Get(ctx context.Context, id int64) (*domain.Sale, error)
	List(ctx context.Context) ([]domain.Sale, error)
	ListByDate(ctx context.Context, date string) ([]domain.Sale, error)
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// Store groups the repositories over one connection or transaction.
type Store interface {
	Products() ProductRepository
	Customers() CustomerRepository
	Sales() SaleRepository
	Users() UserRepository

	// WithinTx runs fn against a transactional Store; fn's error rolls everything back
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
