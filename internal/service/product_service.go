package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bazar/m/domain"
	"bazar/m/internal/port"
)

type ProductService struct {
	store  port.Store
	logger *zap.Logger
}

func NewProductService(store port.Store, logger *zap.Logger) *ProductService {
	return &ProductService{store: store, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.store.Products().Create(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products().List(ctx)
}

// LowStock lists products with fewer than threshold units left, emptiest first.
func (s *ProductService) LowStock(ctx context.Context, threshold int64) ([]domain.Product, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must not be negative", ErrInvalidInput)
	}
	return s.store.Products().ListBelow(ctx, threshold)
}

// Update renames or reprices a product. The quantity on the argument is
// ignored; use Restock so concurrent sales are not overwritten.
func (s *ProductService) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	product.Quantity = 0
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	var updated *domain.Product
	err := s.store.WithinTx(ctx, func(tx port.Store) error {
		ok, err := tx.Products().Update(ctx, product)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrProductNotFound, product.ID)
		}
		updated, err = tx.Products().Get(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Restock adds quantity units to the product's current stock.
func (s *ProductService) Restock(ctx context.Context, id, quantity int64) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", ErrInvalidInput)
	}

	var restocked *domain.Product
	err := s.store.WithinTx(ctx, func(tx port.Store) error {
		product, err := tx.Products().Get(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		if err := tx.Products().IncrementStock(ctx, id, quantity); err != nil {
			return err
		}
		restocked, err = tx.Products().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product restocked",
		zap.Int64("product_id", id),
		zap.Int64("added", quantity),
		zap.Int64("quantity", restocked.Quantity),
	)
	return restocked, nil
}

// Delete refuses products that still appear on a sale; their stock history would be lost.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx port.Store) error {
		inUse, err := tx.Products().InUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("%w: %d", ErrProductInUse, id)
		}
		ok, err := tx.Products().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		s.logger.Info("product deleted", zap.Int64("product_id", id))
		return nil
	})
}

func validateProduct(p domain.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case p.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	return nil
}
