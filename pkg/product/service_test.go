package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-accounts/pkg/errors"
)

func newProduct(code int) Product {
	return Product{
		Code:                 code,
		Name:                 "Milk 1L",
		Category:             "Dairy",
		Brand:                "Acme",
		UnitPresentation:     "bottle",
		QuantityPresentation: 1,
		Price:                2.49,
		SupplierName:         "Acme Foods",
	}
}

func TestServiceCreate(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, newProduct(100))
	require.NoError(t, err)
	assert.Equal(t, 100, created.Code)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk 1L", got.Name)
}

func TestServiceCreateValidation(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Code: 0, Name: "Milk"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))

	_, err = svc.Create(ctx, Product{Code: 100})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))
}

func TestServiceCreateDuplicateCode(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, newProduct(100))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newProduct(100))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))
}

func TestServiceReplaceOverwritesAllFields(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, newProduct(100))
	require.NoError(t, err)

	replaced, err := svc.Replace(ctx, created.ID, Product{
		Code:  200,
		Name:  "Whole Milk 1L",
		Price: 3.19,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, replaced.Code)
	assert.Equal(t, "Whole Milk 1L", replaced.Name)
	assert.Equal(t, 3.19, replaced.Price)
	// fields absent from the replacement are cleared, not merged
	assert.Empty(t, replaced.Category)
	assert.Empty(t, replaced.SupplierName)

	// keeping the same code on replace is fine
	_, err = svc.Replace(ctx, created.ID, Product{Code: 200, Name: "Whole Milk"})
	assert.NoError(t, err)
}

func TestServiceReplaceRejectsTakenCode(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	first, err := svc.Create(ctx, newProduct(100))
	require.NoError(t, err)
	_, err = svc.Create(ctx, newProduct(200))
	require.NoError(t, err)

	_, err = svc.Replace(ctx, first.ID, Product{Code: 200, Name: "Milk"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))

	// the losing replace left the product untouched
	got, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Code)
}

func TestServiceDeleteRemovesRow(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, newProduct(100))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	err = svc.Delete(ctx, created.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestServiceUpdateMergesNonNil(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, newProduct(100))
	require.NoError(t, err)

	price := 2.99
	updated, err := svc.Update(ctx, created.ID, UpdateParams{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 2.99, updated.Price)
	assert.Equal(t, "Milk 1L", updated.Name)
}

func TestServiceDisableFreesCode(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, newProduct(100))
	require.NoError(t, err)

	require.NoError(t, svc.Disable(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	// the freed code is reusable
	_, err = svc.Create(ctx, newProduct(100))
	assert.NoError(t, err)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
