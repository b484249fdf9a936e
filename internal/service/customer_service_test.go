package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bazar/m/domain"
)

func TestCustomerService_Create(t *testing.T) {
	svc := NewCustomerService(newTestStore(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Customer{FirstName: "Ana"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	created, err := svc.Create(ctx, domain.Customer{FirstName: " Ana ", LastName: "Paz", DNI: " 30111222 ", Address: "Calle 1"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Ana", created.FirstName)
	assert.Equal(t, "30111222", created.DNI)

	_, err = svc.Create(ctx, domain.Customer{FirstName: "Otra", LastName: "Persona", DNI: "30111222"})
	assert.ErrorIs(t, err, ErrDuplicateDNI)

	byDNI, err := svc.GetByDNI(ctx, "30111222")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byDNI.ID)

	_, err = svc.GetByDNI(ctx, "0")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_Update(t *testing.T) {
	store := newTestStore(t)
	svc := NewCustomerService(store, zap.NewNop())
	ctx := context.Background()
	ana := addCustomer(t, store, "Ana", "Paz", "1")
	addCustomer(t, store, "Luis", "Sosa", "2")

	ana.Address = "Calle 9"
	updated, err := svc.Update(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, "Calle 9", updated.Address)

	ana.DNI = "2"
	_, err = svc.Update(ctx, ana)
	assert.ErrorIs(t, err, ErrDuplicateDNI)

	_, err = svc.Update(ctx, domain.Customer{ID: 99, FirstName: "x", LastName: "y", DNI: "99"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_ListAndDelete(t *testing.T) {
	sales, store := newTestSaleService(t, nil)
	svc := NewCustomerService(store, zap.NewNop())
	ctx := context.Background()
	ana := addCustomer(t, store, "Ana", "Paz", "1")
	luis := addCustomer(t, store, "Luis", "Sosa", "2")
	p := addProduct(t, store, "yerba", "10", 2)

	_, err := svc.List(ctx, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	page, err := svc.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, luis.ID, page[0].ID)

	_, err = sales.CreateSale(ctx, ana.ID, []int64{p.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, ana.ID), ErrCustomerHasSales)
	require.NoError(t, svc.Delete(ctx, luis.ID))
	assert.ErrorIs(t, svc.Delete(ctx, luis.ID), ErrCustomerNotFound)

	_, err = svc.Get(ctx, luis.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
