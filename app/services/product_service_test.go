package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/apperr"
)

func newProductFixture(t *testing.T) (*services.ProductService, *repositories.MemoryProductRepository) {
	t.Helper()
	products := repositories.NewMemoryProductRepository()
	recorder := services.NewActivityRecorder(repositories.NewMemoryActivityRepository())
	t.Cleanup(recorder.Close)
	return services.NewProductService(products, recorder, nil), products
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }
func strPtr(s string) *string     { return &s }

func TestCreateProductDefaults(t *testing.T) {
	svc, _ := newProductFixture(t)

	p, err := svc.Create(context.Background(), services.Actor{Name: "admin"}, services.CreateProductInput{
		Name:        "Laptop Pro",
		Description: "High-performance laptop",
		Category:    models.CategoryElectronics,
		Price:       999.99,
		Stock:       10,
	})
	require.NoError(t, err)
	assert.False(t, p.ID.IsZero())
	assert.Equal(t, models.StatusActive, p.Status)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateProductZeroStockIsOutOfStock(t *testing.T) {
	svc, _ := newProductFixture(t)

	p, err := svc.Create(context.Background(), services.Actor{}, services.CreateProductInput{
		Name:        "Sold Out Item",
		Description: "nothing left",
		Category:    models.CategoryOther,
		Price:       5,
		Stock:       0,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutOfStock, p.Status)
}

func TestPartialUpdateLeavesOtherFieldsAlone(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, services.Actor{}, services.CreateProductInput{
		Name:        "Coffee Beans",
		Description: "Arabica",
		Category:    models.CategoryFood,
		Price:       24.99,
		Stock:       50,
		ImageURL:    "https://cdn.example.com/coffee.png",
	})
	require.NoError(t, err)

	got, err := svc.Update(ctx, services.Actor{}, p.ID, services.UpdateProductInput{
		Price: floatPtr(19.99),
	})
	require.NoError(t, err)

	assert.Equal(t, 19.99, got.Price)
	assert.Equal(t, "Coffee Beans", got.Name)
	assert.Equal(t, "Arabica", got.Description)
	assert.Equal(t, 50, got.Stock)
	assert.Equal(t, "https://cdn.example.com/coffee.png", got.ImageURL)
}

func TestUpdateZeroValuesAreApplied(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, services.Actor{}, services.CreateProductInput{
		Name:        "Clearance Widget",
		Description: "on sale",
		Category:    models.CategoryOther,
		Price:       10,
		Stock:       5,
	})
	require.NoError(t, err)

	// Pointer-typed fields make explicit zeros distinguishable from "not sent".
	got, err := svc.Update(ctx, services.Actor{}, p.ID, services.UpdateProductInput{
		Price:    floatPtr(0),
		Stock:    intPtr(0),
		ImageURL: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Price)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, "", got.ImageURL)
	assert.Equal(t, models.StatusOutOfStock, got.Status)
}

func TestUpdateRestockFlipsOutOfStockBackToActive(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, services.Actor{}, services.CreateProductInput{
		Name:        "Headphones",
		Description: "noise cancelling",
		Category:    models.CategoryElectronics,
		Price:       199.99,
		Stock:       0,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusOutOfStock, p.Status)

	got, err := svc.Update(ctx, services.Actor{}, p.ID, services.UpdateProductInput{
		Stock: intPtr(25),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
}

func TestDeleteThenDeleteAgain(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, services.Actor{}, services.CreateProductInput{
		Name:        "Gone Soon",
		Description: "temp",
		Category:    models.CategoryOther,
		Price:       1,
		Stock:       1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, services.Actor{}, p.ID))

	err = svc.Delete(ctx, services.Actor{}, p.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Get(ctx, p.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetUnknownProduct(t *testing.T) {
	svc, _ := newProductFixture(t)
	_, err := svc.Get(context.Background(), primitive.NewObjectID())
	assert.True(t, apperr.IsNotFound(err))
}

func TestListSearchFilterSort(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	seed := []services.CreateProductInput{
		{Name: "Laptop Pro", Description: "workstation", Category: models.CategoryElectronics, Price: 999.99, Stock: 10},
		{Name: "Wireless Headphones", Description: "noise cancelling", Category: models.CategoryElectronics, Price: 199.99, Stock: 25},
		{Name: "Organic Coffee", Description: "arabica beans", Category: models.CategoryFood, Price: 24.99, Stock: 50},
		{Name: "Yoga Mat", Description: "non-slip", Category: models.CategorySports, Price: 29.99, Stock: 0},
	}
	for _, in := range seed {
		_, err := svc.Create(ctx, services.Actor{}, in)
		require.NoError(t, err)
	}

	// Case-insensitive search over name OR description.
	got, err := svc.List(ctx, repositories.ProductQuery{Search: "NOISE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Wireless Headphones", got[0].Name)

	// Category filter.
	got, err = svc.List(ctx, repositories.ProductQuery{Category: models.CategoryElectronics})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Status filter picks up the derived out-of-stock.
	got, err = svc.List(ctx, repositories.ProductQuery{Status: models.StatusOutOfStock})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Yoga Mat", got[0].Name)

	// Ascending price sort.
	got, err = svc.List(ctx, repositories.ProductQuery{SortBy: "price"})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Organic Coffee", got[0].Name)
	assert.Equal(t, "Laptop Pro", got[3].Name)

	// Descending price sort.
	got, err = svc.List(ctx, repositories.ProductQuery{SortBy: "price", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", got[0].Name)
}
