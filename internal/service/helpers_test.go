package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bazar/m/domain"
	"bazar/m/internal/database"
	"bazar/m/internal/migrations"
	"bazar/m/internal/storage"
)

var saleDay = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := database.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return storage.NewStore(db)
}

func newTestSaleService(t *testing.T, guard *mockGuard) (*SaleService, *storage.Store) {
	t.Helper()
	store := newTestStore(t)
	var svc *SaleService
	if guard != nil {
		svc = NewSaleService(store, guard, zap.NewNop())
	} else {
		svc = NewSaleService(store, nil, zap.NewNop())
	}
	svc.now = func() time.Time { return saleDay }
	return svc, store
}

func addProduct(t *testing.T, store *storage.Store, name, price string, qty int64) domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
	require.NoError(t, store.Products().Create(context.Background(), &p))
	return p
}

func addCustomer(t *testing.T, store *storage.Store, first, last, dni string) domain.Customer {
	t.Helper()
	c := domain.Customer{FirstName: first, LastName: last, DNI: dni}
	require.NoError(t, store.Customers().Create(context.Background(), &c))
	return c
}

func stockOf(t *testing.T, store *storage.Store, id int64) int64 {
	t.Helper()
	p, err := store.Products().Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

// Mock IdempotencyGuard
type mockGuard struct {
	mu          sync.Mutex
	keys        map[string]bool
	released    []string
	releaseErrs []error
}

func newMockGuard() *mockGuard {
	return &mockGuard{keys: make(map[string]bool)}
}

func (m *mockGuard) Acquire(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *mockGuard) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		m.releaseErrs = append(m.releaseErrs, err)
		return err
	}
	delete(m.keys, key)
	m.released = append(m.released, key)
	return nil
}
