package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/app/services"
)

// The analytics fixture runs without Redis: the cache degrades to a
// pass-through, so every call hits the repositories directly.
func newAnalyticsFixture(t *testing.T) (*services.AnalyticsService, *services.ProductService, *services.OrderService, *repositories.MemoryProductRepository) {
	t.Helper()
	products := repositories.NewMemoryProductRepository()
	orders := repositories.NewMemoryOrderRepository()
	activity := repositories.NewMemoryActivityRepository()
	recorder := services.NewActivityRecorder(activity)
	t.Cleanup(recorder.Close)

	analytics := services.NewAnalyticsService(products, orders, activity)
	productSvc := services.NewProductService(products, recorder, analytics.Invalidate)
	orderSvc := services.NewOrderService(orders, products, recorder, analytics.Invalidate)
	return analytics, productSvc, orderSvc, products
}

func TestDashboardInventoryCounts(t *testing.T) {
	analytics, productSvc, _, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	seed := []services.CreateProductInput{
		{Name: "Laptop Pro", Description: "workstation", Category: models.CategoryElectronics, Price: 1000, Stock: 10},
		{Name: "Headphones", Description: "audio", Category: models.CategoryElectronics, Price: 200, Stock: 5},
		{Name: "Coffee", Description: "beans", Category: models.CategoryFood, Price: 25, Stock: 0},
		{Name: "Mouse", Description: "wireless", Category: models.CategoryElectronics, Price: 40, Stock: 3, Status: models.StatusInactive},
	}
	for _, in := range seed {
		_, err := productSvc.Create(ctx, services.Actor{}, in)
		require.NoError(t, err)
	}

	d, err := analytics.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), d.Inventory.TotalProducts)
	assert.Equal(t, int64(2), d.Inventory.ActiveProducts)
	assert.Equal(t, int64(1), d.Inventory.OutOfStockProducts)
	// Low stock counts 0 < stock <= 10: laptop (10), headphones (5), mouse (3).
	assert.Equal(t, int64(3), d.Inventory.LowStockProducts)

	require.Len(t, d.Inventory.CategoryStats, 2)
	assert.Equal(t, models.CategoryElectronics, d.Inventory.CategoryStats[0].Category)
	assert.Equal(t, int64(3), d.Inventory.CategoryStats[0].Count)
	assert.InDelta(t, 1000*10+200*5+40*3, d.Inventory.CategoryStats[0].TotalValue, 1e-9)
}

func TestDashboardSalesAggregates(t *testing.T) {
	analytics, productSvc, orderSvc, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	laptop, err := productSvc.Create(ctx, services.Actor{}, services.CreateProductInput{
		Name: "Laptop Pro", Description: "workstation", Category: models.CategoryElectronics, Price: 1000, Stock: 100,
	})
	require.NoError(t, err)
	mat, err := productSvc.Create(ctx, services.Actor{}, services.CreateProductInput{
		Name: "Yoga Mat", Description: "non-slip", Category: models.CategorySports, Price: 30, Stock: 100,
	})
	require.NoError(t, err)

	o1, err := orderSvc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: laptop.ID.Hex(), Quantity: 2},
	))
	require.NoError(t, err)
	_, err = orderSvc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: laptop.ID.Hex(), Quantity: 1},
		services.OrderItemInput{ProductID: mat.ID.Hex(), Quantity: 3},
	))
	require.NoError(t, err)

	_, err = orderSvc.UpdateStatus(ctx, services.Actor{}, o1.ID, models.OrderShipped)
	require.NoError(t, err)

	d, err := analytics.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), d.Sales.TotalOrders)
	assert.InDelta(t, 2000+1000+90, d.Sales.TotalRevenue, 1e-9)
	assert.Equal(t, int64(1), d.Sales.OrdersByStatus[models.OrderPending])
	assert.Equal(t, int64(1), d.Sales.OrdersByStatus[models.OrderShipped])

	require.Len(t, d.Sales.TopProducts, 2)
	assert.Equal(t, "Laptop Pro", d.Sales.TopProducts[0].ProductName)
	assert.Equal(t, int64(3), d.Sales.TopProducts[0].TotalSold)
	assert.InDelta(t, 3000, d.Sales.TopProducts[0].Revenue, 1e-9)

	require.NotEmpty(t, d.Sales.SalesTrend)
	assert.Equal(t, int64(2), d.Sales.SalesTrend[0].Orders)
}

func TestInventoryReportLowStockAlerts(t *testing.T) {
	analytics, productSvc, _, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	seed := []services.CreateProductInput{
		{Name: "Nearly Gone", Description: "last units", Category: models.CategoryOther, Price: 5, Stock: 2},
		{Name: "Getting Low", Description: "reorder soon", Category: models.CategoryOther, Price: 5, Stock: 8},
		{Name: "Plenty", Description: "warehouse full", Category: models.CategoryOther, Price: 5, Stock: 500},
		{Name: "Inactive Low", Description: "retired", Category: models.CategoryOther, Price: 5, Stock: 1, Status: models.StatusInactive},
	}
	for _, in := range seed {
		_, err := productSvc.Create(ctx, services.Actor{}, in)
		require.NoError(t, err)
	}

	rep, err := analytics.Inventory(ctx)
	require.NoError(t, err)

	// Only active products at or under the threshold, lowest stock first.
	require.Len(t, rep.LowStockAlerts, 2)
	assert.Equal(t, "Nearly Gone", rep.LowStockAlerts[0].Name)
	assert.Equal(t, "Getting Low", rep.LowStockAlerts[1].Name)
	assert.NotEmpty(t, rep.CategoryDistribution)
}
