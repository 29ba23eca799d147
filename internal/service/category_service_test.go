package service

import (
	"context"
	"testing"

	"agrostore/internal/apperr"
	"agrostore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryFixture() (*CategoryService, *fakeCategoryStore, *fakeProductStore) {
	categories := newFakeCategoryStore()
	products := newFakeProductStore()
	svc := NewCategoryService(categories, products, zap.NewNop())
	return svc, categories, products
}

func addProducts(products *fakeProductStore, category *model.Category, n int) {
	for i := 0; i < n; i++ {
		products.add(model.Product{
			Name:         "product",
			Brand:        "brand",
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Price:        10,
			ImageURL:     "https://cdn.example.com/products/a.png",
		})
	}
}

func TestCreateCategoryNormalizesName(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	category, err := svc.Create(context.Background(), "  fertilizers ")
	require.NoError(t, err)
	assert.Equal(t, "FERTILIZERS", category.Name)
}

func TestCreateCategoryRejectsEmptyName(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	_, err := svc.Create(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestCreateCategoryRejectsDuplicateIgnoringCase(t *testing.T) {
	svc, categories, _ := newCategoryFixture()
	categories.add("SEEDS")

	_, err := svc.Create(context.Background(), "  seeds ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRenameCategoryNotFound(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	_, err := svc.Rename(context.Background(), 42, "TOOLS", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRenameCategoryConflictRegardlessOfProducts(t *testing.T) {
	svc, categories, products := newCategoryFixture()
	a := categories.add("SEEDS")
	categories.add("TOOLS")
	addProducts(products, a, 3)

	for _, confirm := range []bool{false, true} {
		_, err := svc.Rename(context.Background(), a.ID, " tools ", confirm)
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	}
}

func TestRenameCategoryNoOp(t *testing.T) {
	svc, categories, _ := newCategoryFixture()
	a := categories.add("SEEDS")

	_, err := svc.Rename(context.Background(), a.ID, "  seeds ", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestRenameCategoryNeedsConfirmationMutatesNothing(t *testing.T) {
	svc, categories, products := newCategoryFixture()
	a := categories.add("SEEDS")
	addProducts(products, a, 4)

	result, err := svc.Rename(context.Background(), a.ID, "GRAINS", false)
	require.NoError(t, err)
	require.True(t, result.NeedsConfirmation)
	assert.Equal(t, int64(4), result.ProductCount)

	// Nothing was touched.
	stored, err := categories.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "SEEDS", stored.Name)
	for _, p := range products.products {
		assert.Equal(t, "SEEDS", p.CategoryName)
	}
}

func TestRenameCategoryConfirmedCascades(t *testing.T) {
	svc, categories, products := newCategoryFixture()
	a := categories.add("SEEDS")
	b := categories.add("TOOLS")
	addProducts(products, a, 4)
	addProducts(products, b, 2)

	result, err := svc.Rename(context.Background(), a.ID, "GRAINS", true)
	require.NoError(t, err)
	require.False(t, result.NeedsConfirmation)
	assert.Equal(t, int64(4), result.UpdatedProductCount)
	assert.Equal(t, "GRAINS", result.Category.Name)

	for _, p := range products.products {
		if p.CategoryID == a.ID {
			assert.Equal(t, "GRAINS", p.CategoryName)
		} else {
			assert.Equal(t, "TOOLS", p.CategoryName)
		}
	}
}

func TestRenameCategoryWithoutProductsSkipsConfirmation(t *testing.T) {
	svc, categories, _ := newCategoryFixture()
	a := categories.add("SEEDS")

	result, err := svc.Rename(context.Background(), a.ID, "GRAINS", false)
	require.NoError(t, err)
	assert.False(t, result.NeedsConfirmation)
	assert.Equal(t, int64(0), result.UpdatedProductCount)
	assert.Equal(t, "GRAINS", result.Category.Name)
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	svc, categories, products := newCategoryFixture()
	a := categories.add("SEEDS")
	addProducts(products, a, 1)

	err := svc.Delete(context.Background(), a.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	stored, err := categories.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestDeleteCategoryWithoutProducts(t *testing.T) {
	svc, categories, _ := newCategoryFixture()
	a := categories.add("SEEDS")

	require.NoError(t, svc.Delete(context.Background(), a.ID))

	stored, err := categories.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
