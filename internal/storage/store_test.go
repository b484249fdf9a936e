package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazar/m/domain"
	"bazar/m/internal/database"
	"bazar/m/internal/migrations"
	"bazar/m/internal/port"
)

func newTestStore(t *testing.T) (*Store, *sqlx.DB) {
	t.Helper()
	db, err := database.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return NewStore(db), db
}

func seedProduct(t *testing.T, s *Store, name, price string, qty int64) domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
	require.NoError(t, s.Products().Create(context.Background(), &p))
	return p
}

func seedCustomer(t *testing.T, s *Store, dni string) domain.Customer {
	t.Helper()
	c := domain.Customer{FirstName: "Ana", LastName: "Paz", DNI: dni, Address: "Calle 1"}
	require.NoError(t, s.Customers().Create(context.Background(), &c))
	return c
}

func TestProductRepository_CRUD(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := seedProduct(t, s, "yerba", "12.50", 3)
	assert.NotZero(t, p.ID)

	got, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "yerba", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, int64(3), got.Quantity)

	got.Name = "yerba mate"
	got.Quantity = 50
	ok, err := s.Products().Update(ctx, *got)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := s.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "yerba mate", list[0].Name)
	assert.Equal(t, int64(3), list[0].Quantity, "update must not touch stock")

	ok, err = s.Products().Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	missing, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepository_DecrementStock(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "mate", "30", 1)

	ok, err := s.Products().DecrementStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Stock is exhausted, the conditional update must not go negative.
	ok, err = s.Products().DecrementStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)

	require.NoError(t, s.Products().IncrementStock(ctx, p.ID, 2))
	got, err = s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Quantity)

	assert.Error(t, s.Products().IncrementStock(ctx, 9999, 1))
}

func TestProductRepository_ListBelow(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seedProduct(t, s, "a", "1", 10)
	low := seedProduct(t, s, "b", "1", 2)
	empty := seedProduct(t, s, "c", "1", 0)

	list, err := s.Products().ListBelow(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, empty.ID, list[0].ID)
	assert.Equal(t, low.ID, list[1].ID)
}

func TestCustomerRepository_CRUD(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	c := seedCustomer(t, s, "30111222")
	seedCustomer(t, s, "30111223")
	seedCustomer(t, s, "30111224")

	got, err := s.Customers().GetByDNI(ctx, "30111222")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)

	page, err := s.Customers().List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "30111223", page[0].DNI)

	all, err := s.Customers().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// dni is unique
	dup := domain.Customer{FirstName: "X", LastName: "Y", DNI: "30111222"}
	assert.Error(t, s.Customers().Create(ctx, &dup))

	got.Address = "Calle 2"
	ok, err := s.Customers().Update(ctx, *got)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Customers().Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	missing, err := s.Customers().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaleRepository_CreateAndLoad(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a := seedProduct(t, s, "a", "10", 5)
	b := seedProduct(t, s, "b", "2.5", 5)
	c := seedCustomer(t, s, "1")

	sale := domain.Sale{
		Code:     "code-1",
		SaleDate: "2026-10-19",
		Customer: c,
		Products: []domain.Product{a, b, a},
	}
	sale.Total = sale.ComputeTotal()
	require.NoError(t, s.Sales().Create(ctx, &sale))
	assert.NotZero(t, sale.ID)

	got, err := s.Sales().Get(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "code-1", got.Code)
	assert.Equal(t, "2026-10-19", got.SaleDate)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("22.5")))
	assert.Equal(t, c.DNI, got.Customer.DNI)
	require.Len(t, got.Products, 3)
	assert.Equal(t, []int64{a.ID, b.ID, a.ID}, []int64{got.Products[0].ID, got.Products[1].ID, got.Products[2].ID})

	inUse, err := s.Products().InUse(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, inUse)

	hasSales, err := s.Customers().HasSales(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, hasSales)

	byDate, err := s.Sales().ListByDate(ctx, "2026-10-19")
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	none, err := s.Sales().ListByDate(ctx, "2026-10-18")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.Sales().Delete(ctx, sale.ID))
	gone, err := s.Sales().Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	inUse, err = s.Products().InUse(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "a", "10", 1)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx port.Store) error {
		ok, err := tx.Products().DecrementStock(ctx, p.ID, 1)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Quantity)
}

func TestUserRepository(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	u := domain.User{Username: "caja1", Password: "hash", Role: domain.RoleCashier}
	require.NoError(t, s.Users().Create(ctx, &u))

	got, err := s.Users().GetByUsername(ctx, "caja1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	require.NoError(t, s.Users().UpdatePassword(ctx, u.ID, "other"))
	got, err = s.Users().GetByUsername(ctx, "caja1")
	require.NoError(t, err)
	assert.Equal(t, "other", got.Password)

	missing, err := s.Users().GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
