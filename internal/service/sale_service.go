package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"bazar/m/domain"
	"bazar/m/internal/port"
)

const releaseTimeout = 3 * time.Second

// SaleService owns the sale lifecycle: it is the only place that creates or
// deletes sales, and it keeps product stock in step with them.
type SaleService struct {
	store  port.Store
	guard  port.IdempotencyGuard
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewSaleService builds the workflow. guard may be nil, in which case
// idempotency keys are ignored.
func NewSaleService(store port.Store, guard port.IdempotencyGuard, logger *zap.Logger) *SaleService {
	return &SaleService{
		store:  store,
		guard:  guard,
		logger: logger,
		tracer: otel.Tracer("bazar/m/internal/service"),
		now:    time.Now,
	}
}

// CreateSale validates the order, records the sale dated today and takes one
// unit of stock per product occurrence. Everything happens in one
// transaction; each decrement only applies while stock is still positive,
// so concurrent sales cannot oversell.
func (s *SaleService) CreateSale(ctx context.Context, customerID int64, productIDs []int64) (*domain.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "sale.create")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("customer.id", customerID),
		attribute.Int("sale.item_count", len(productIDs)),
	)

	if len(productIDs) == 0 {
		return nil, fail(span, ErrEmptyOrder)
	}

	var created *domain.Sale
	err := s.store.WithinTx(ctx, func(tx port.Store) error {
		products, err := validProducts(ctx, tx.Products(), productIDs)
		if err != nil {
			return err
		}

		customer, err := tx.Customers().Get(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
		}

		sale := domain.Sale{
			Code:     uuid.NewString(),
			SaleDate: domain.FormatDate(s.now()),
			Customer: *customer,
			Products: products,
		}
		sale.Total = sale.ComputeTotal()

		if err := tx.Sales().Create(ctx, &sale); err != nil {
			return err
		}

		for _, p := range products {
			ok, err := tx.Products().DecrementStock(ctx, p.ID, 1)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %d", ErrOutOfStock, p.ID)
			}
		}

		created, err = tx.Sales().Get(ctx, sale.ID)
		return err
	})
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int64("sale.id", created.ID))
	s.logger.Info("sale created",
		zap.Int64("sale_id", created.ID),
		zap.String("code", created.Code),
		zap.Int64("customer_id", customerID),
		zap.Int("items", len(created.Products)),
		zap.String("total", created.Total.String()),
	)
	return created, nil
}

// CreateSaleOnce is CreateSale guarded by an idempotency key. An empty key
// skips the guard. The key is released again if the sale fails, so the
// client can retry.
func (s *SaleService) CreateSaleOnce(ctx context.Context, key string, customerID int64, productIDs []int64) (*domain.Sale, error) {
	if key == "" || s.guard == nil {
		return s.CreateSale(ctx, customerID, productIDs)
	}

	ok, err := s.guard.Acquire(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return nil, ErrDuplicateRequest
	}

	sale, err := s.CreateSale(ctx, customerID, productIDs)
	if err != nil {
		s.releaseKey(ctx, key)
		return nil, err
	}
	return sale, nil
}

// releaseKey frees the idempotency key even when ctx is already cancelled,
// otherwise a dropped client would block retries until the key expires.
func (s *SaleService) releaseKey(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := s.guard.Release(ctx, key); err != nil {
		s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// validProducts resolves every id in order. Duplicates are resolved (and
// stock-checked) independently.
func validProducts(ctx context.Context, repo port.ProductRepository, ids []int64) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		product, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		if !product.InStock() {
			return nil, fmt.Errorf("%w: %d", ErrOutOfStock, id)
		}
		products = append(products, *product)
	}
	return products, nil
}

// DeleteSale cancels a sale: one unit per product occurrence goes back to
// stock and the sale is removed, in one transaction.
func (s *SaleService) DeleteSale(ctx context.Context, saleID int64) error {
	ctx, span := s.tracer.Start(ctx, "sale.delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("sale.id", saleID))

	var restored int
	err := s.store.WithinTx(ctx, func(tx port.Store) error {
		sale, err := tx.Sales().Get(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: %d", ErrSaleNotFound, saleID)
		}

		for _, p := range sale.Products {
			if err := tx.Products().IncrementStock(ctx, p.ID, 1); err != nil {
				return err
			}
		}
		restored = len(sale.Products)

		return tx.Sales().Delete(ctx, saleID)
	})
	if err != nil {
		return fail(span, err)
	}

	s.logger.Info("sale deleted", zap.Int64("sale_id", saleID), zap.Int("restored_units", restored))
	return nil
}

func (s *SaleService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.store.Sales().List(ctx)
}

// GetSale returns nil without error when the sale does not exist.
func (s *SaleService) GetSale(ctx context.Context, saleID int64) (*domain.Sale, error) {
	return s.store.Sales().Get(ctx, saleID)
}

func (s *SaleService) SaleProducts(ctx context.Context, saleID int64) ([]domain.Product, error) {
	sale, err := s.store.Sales().Get(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: %d", ErrSaleNotFound, saleID)
	}
	return sale.Products, nil
}

// SalesOnDate matches the calendar date exactly.
func (s *SaleService) SalesOnDate(ctx context.Context, date time.Time) ([]domain.Sale, error) {
	return s.store.Sales().ListByDate(ctx, domain.FormatDate(date))
}

func (s *SaleService) DailySummary(ctx context.Context, date time.Time) (*domain.DailySales, error) {
	sales, err := s.SalesOnDate(ctx, date)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, sale := range sales {
		revenue = revenue.Add(sale.Total)
	}
	return &domain.DailySales{
		Date:       domain.FormatDate(date),
		Revenue:    revenue,
		SalesCount: len(sales),
	}, nil
}

// HighestValueSale keeps the first sale seen among equal totals.
func (s *SaleService) HighestValueSale(ctx context.Context) (*domain.SaleSummary, error) {
	sales, err := s.store.Sales().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, ErrSaleNotFound
	}

	best := sales[0]
	for _, sale := range sales[1:] {
		if sale.Total.GreaterThan(best.Total) {
			best = sale
		}
	}

	return &domain.SaleSummary{
		SaleID:            best.ID,
		Total:             best.Total,
		ItemCount:         len(best.Products),
		CustomerFirstName: best.Customer.FirstName,
		CustomerLastName:  best.Customer.LastName,
	}, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
