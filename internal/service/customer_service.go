package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bazar/m/domain"
	"bazar/m/internal/port"
)

type CustomerService struct {
	store  port.Store
	logger *zap.Logger
}

func NewCustomerService(store port.Store, logger *zap.Logger) *CustomerService {
	return &CustomerService{store: store, logger: logger}
}

func (s *CustomerService) Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	customer = normalizeCustomer(customer)
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(tx port.Store) error {
		existing, err := tx.Customers().GetByDNI(ctx, customer.DNI)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateDNI, customer.DNI)
		}
		return tx.Customers().Create(ctx, &customer)
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.store.Customers().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: %d", ErrCustomerNotFound, id)
	}
	return customer, nil
}

func (s *CustomerService) GetByDNI(ctx context.Context, dni string) (*domain.Customer, error) {
	dni = strings.TrimSpace(dni)
	customer, err := s.store.Customers().GetByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: dni %s", ErrCustomerNotFound, dni)
	}
	return customer, nil
}

// List pages through customers by id; limit 0 means no limit and then
// offset must be 0 too.
func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	if limit == 0 && offset > 0 {
		return nil, fmt.Errorf("%w: offset requires a limit", ErrInvalidInput)
	}
	return s.store.Customers().List(ctx, limit, offset)
}

func (s *CustomerService) Update(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	customer = normalizeCustomer(customer)
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(tx port.Store) error {
		existing, err := tx.Customers().GetByDNI(ctx, customer.DNI)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != customer.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateDNI, customer.DNI)
		}
		ok, err := tx.Customers().Update(ctx, customer)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrCustomerNotFound, customer.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx port.Store) error {
		hasSales, err := tx.Customers().HasSales(ctx, id)
		if err != nil {
			return err
		}
		if hasSales {
			return fmt.Errorf("%w: %d", ErrCustomerHasSales, id)
		}
		ok, err := tx.Customers().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrCustomerNotFound, id)
		}
		s.logger.Info("customer deleted", zap.Int64("customer_id", id))
		return nil
	})
}

func normalizeCustomer(c domain.Customer) domain.Customer {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.DNI = strings.TrimSpace(c.DNI)
	c.Address = strings.TrimSpace(c.Address)
	return c
}

func validateCustomer(c domain.Customer) error {
	if c.FirstName == "" || c.LastName == "" || c.DNI == "" {
		return fmt.Errorf("%w: first_name, last_name and dni are required", ErrInvalidInput)
	}
	return nil
}
