package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplier-inventory-api/internal/models"
	"supplier-inventory-api/internal/testutil"
)

func strPtr(s string) *string { return &s }

func intPtr(n int64) *int64 { return &n }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func supplierInput(name, email string) models.SupplierInput {
	return models.SupplierInput{
		Name:    strPtr(name),
		Company: strPtr(name + " Co"),
		Email:   strPtr(email),
		Phone:   strPtr("555-0100"),
	}
}

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.NewSQLiteStore(t), nil)
}

func TestCreateThenGetSupplier(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	in := supplierInput("Ada", "ada@acme.test")
	created, err := svc.CreateSupplier(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.GetSupplier(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Supplier(created.ID), got)
}

func TestSupplierNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	ok, err := svc.DeleteSupplier(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.GetSupplier(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateSupplier(ctx, 42, supplierInput("Ada", "ada@acme.test"))
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, EntitySupplier, nf.Entity)
	assert.Equal(t, int64(42), nf.ID)
	assert.Equal(t, "supplier 42 not found", err.Error())
}

func TestUpdateSupplierRequiresAllFields(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.CreateSupplier(ctx, supplierInput("Ada", "ada@acme.test"))
	require.NoError(t, err)

	_, err = svc.UpdateSupplier(ctx, created.ID, models.SupplierInput{Name: strPtr("Grace")})
	assert.ErrorIs(t, err, models.ErrValidation)

	updated, err := svc.UpdateSupplier(ctx, created.ID, supplierInput("Grace", "grace@acme.test"))
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.Name)
	assert.Equal(t, "grace@acme.test", updated.Email)
	assert.Equal(t, created.ID, updated.ID)
}

func TestCreateProductAccumulatesRevenue(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	sp, err := svc.CreateSupplier(ctx, supplierInput("Ada", "ada@acme.test"))
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, sp.ID, models.ProductInput{
		Name:            strPtr("Widget"),
		QuantityInStock: intPtr(10),
		QuantitySold:    intPtr(5),
		UnitPrice:       decPtr("2.0"),
		Revenue:         decPtr("100"),
	})
	require.NoError(t, err)
	assert.True(t, p.Revenue.Equal(decimal.NewFromInt(110)), "revenue = %s", p.Revenue)
	assert.Equal(t, sp.ID, p.SuppliedByID)

	stored, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Revenue.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, int64(10), stored.QuantityInStock)
}

func TestUpdateProductIgnoresStoredRevenue(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	sp, err := svc.CreateSupplier(ctx, supplierInput("Ada", "ada@acme.test"))
	require.NoError(t, err)
	p, err := svc.CreateProduct(ctx, sp.ID, models.ProductInput{
		Name:         strPtr("Widget"),
		QuantitySold: intPtr(100),
		UnitPrice:    decPtr("9.99"),
		Revenue:      decPtr("1000"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID, models.ProductInput{
		Name:            strPtr("Widget v2"),
		QuantityInStock: intPtr(1),
		QuantitySold:    intPtr(3),
		UnitPrice:       decPtr("4.0"),
		Revenue:         decPtr("50"),
	})
	require.NoError(t, err)
	assert.True(t, updated.Revenue.Equal(decimal.NewFromInt(62)), "revenue = %s", updated.Revenue)
	assert.Equal(t, "Widget v2", updated.Name)
	assert.Equal(t, sp.ID, updated.SuppliedByID)
}

func TestUpdateProductValidationAndNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.UpdateProduct(ctx, 1, models.ProductInput{Name: strPtr("Widget")})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.UpdateProduct(ctx, 1, models.ProductInput{
		Name:            strPtr("Widget"),
		QuantityInStock: intPtr(1),
		QuantitySold:    intPtr(1),
		UnitPrice:       decPtr("1"),
		Revenue:         decPtr("1"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProductUnknownSupplier(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.CreateProduct(ctx, 7, models.ProductInput{Name: strPtr("Widget")})
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, EntitySupplier, nf.Entity)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListReflectsCreatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	a, err := svc.CreateSupplier(ctx, supplierInput("Ada", "ada@acme.test"))
	require.NoError(t, err)
	b, err := svc.CreateSupplier(ctx, supplierInput("Grace", "grace@acme.test"))
	require.NoError(t, err)

	p1, err := svc.CreateProduct(ctx, a.ID, models.ProductInput{Name: strPtr("Widget")})
	require.NoError(t, err)
	p2, err := svc.CreateProduct(ctx, b.ID, models.ProductInput{Name: strPtr("Gadget"), QuantitySold: intPtr(2), UnitPrice: decPtr("1.5")})
	require.NoError(t, err)

	ok, err := svc.DeleteSupplier(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = svc.DeleteProduct(ctx, p1.ID)
	require.NoError(t, err)
	require.True(t, ok)

	suppliers, err := svc.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Supplier{b}, suppliers)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p2.ID, products[0].ID)
	assert.Equal(t, "Gadget", products[0].Name)
	assert.True(t, products[0].Revenue.Equal(decimal.NewFromInt(3)))

	ok, err = svc.DeleteProduct(ctx, p1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindHelpers(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	sp, err := svc.CreateSupplier(ctx, supplierInput("Ada", "ada@acme.test"))
	require.NoError(t, err)
	p, err := svc.CreateProduct(ctx, sp.ID, models.ProductInput{Name: strPtr("Widget")})
	require.NoError(t, err)

	found, err := svc.FindSupplierByEmail(ctx, "ada@acme.test")
	require.NoError(t, err)
	assert.Equal(t, sp.ID, found.ID)

	_, err = svc.FindSupplierByEmail(ctx, "nobody@acme.test")
	assert.ErrorIs(t, err, ErrNotFound)

	fp, err := svc.FindProduct(ctx, sp.ID, "Widget")
	require.NoError(t, err)
	assert.Equal(t, p.ID, fp.ID)

	_, err = svc.FindProduct(ctx, sp.ID, "Gizmo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevenueKeepsLargeValuesExact(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	sp, err := svc.CreateSupplier(ctx, supplierInput("Ada", "ada@acme.test"))
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, sp.ID, models.ProductInput{
		Name:         strPtr("Bulk"),
		QuantitySold: intPtr(3),
		UnitPrice:    decPtr("0.1"),
		Revenue:      decPtr("99999999999999.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, "100000000000000.29", p.Revenue.StringFixed(2))

	stored, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "100000000000000.29", stored.Revenue.StringFixed(2))
}
