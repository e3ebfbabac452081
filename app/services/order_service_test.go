package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/apperr"
)

func newOrderFixture(t *testing.T) (*services.OrderService, *repositories.MemoryProductRepository, *repositories.MemoryOrderRepository, *services.ActivityRecorder) {
	t.Helper()
	products := repositories.NewMemoryProductRepository()
	orders := repositories.NewMemoryOrderRepository()
	recorder := services.NewActivityRecorder(repositories.NewMemoryActivityRepository())
	t.Cleanup(recorder.Close)
	return services.NewOrderService(orders, products, recorder, nil), products, orders, recorder
}

func seedProduct(t *testing.T, repo *repositories.MemoryProductRepository, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Description: name + " description",
		Category:    models.CategoryElectronics,
		Price:       price,
		Stock:       stock,
		Status:      models.StatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func placeInput(items ...services.OrderItemInput) services.PlaceOrderInput {
	return services.PlaceOrderInput{
		CustomerName:    "Asha Verma",
		CustomerEmail:   "asha@example.com",
		Items:           items,
		ShippingAddress: "42 MG Road, Bengaluru",
	}
}

func TestPlaceOrderDecrementsStockAndSnapshots(t *testing.T) {
	svc, products, _, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, products, "Laptop Pro", 999.99, 10)

	o, err := svc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: p.ID.Hex(), Quantity: 3},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Laptop Pro", o.Items[0].ProductName)
	assert.Equal(t, 999.99, o.Items[0].Price)
	assert.InDelta(t, 3*999.99, o.TotalAmount, 1e-9)

	got, err := products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, products, orders, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, products, "Yoga Mat", 29.99, 2)

	_, err := svc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: p.ID.Hex(), Quantity: 5},
	))
	require.Error(t, err)
	assert.True(t, apperr.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "Insufficient stock for Yoga Mat. Available: 2")

	// No order written, stock untouched.
	all, err := orders.List(ctx, repositories.OrderQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)
	got, _ := products.Get(ctx, p.ID)
	assert.Equal(t, 2, got.Stock)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	missing := primitive.NewObjectID()
	_, err := svc.Place(context.Background(), services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: missing.Hex(), Quantity: 1},
	))
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "Product not found: "+missing.Hex())
}

func TestPlaceOrderReleasesEarlierReservationsOnFailure(t *testing.T) {
	svc, products, orders, _ := newOrderFixture(t)
	ctx := context.Background()
	ok := seedProduct(t, products, "Coffee Beans", 24.99, 50)
	short := seedProduct(t, products, "Headphones", 199.99, 1)

	_, err := svc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: ok.ID.Hex(), Quantity: 10},
		services.OrderItemInput{ProductID: short.ID.Hex(), Quantity: 4},
	))
	require.Error(t, err)

	// The first reservation was rolled back; net stock unchanged.
	got, _ := products.Get(ctx, ok.ID)
	assert.Equal(t, 50, got.Stock)
	got, _ = products.Get(ctx, short.ID)
	assert.Equal(t, 1, got.Stock)

	all, _ := orders.List(ctx, repositories.OrderQuery{})
	assert.Empty(t, all)
}

func TestPlaceOrderMarksProductOutOfStock(t *testing.T) {
	svc, products, _, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, products, "Programming Book", 39.99, 4)

	_, err := svc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: p.ID.Hex(), Quantity: 4},
	))
	require.NoError(t, err)

	got, _ := products.Get(ctx, p.ID)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, models.StatusOutOfStock, got.Status)
}

func TestConcurrentPlacementsNeverOversell(t *testing.T) {
	svc, products, orders, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, products, "Limited Edition", 10, 10)

	const workers = 25
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = svc.Place(ctx, services.Actor{}, placeInput(
				services.OrderItemInput{ProductID: p.ID.Hex(), Quantity: 1},
			))
		}()
	}
	wg.Wait()

	got, _ := products.Get(ctx, p.ID)
	assert.GreaterOrEqual(t, got.Stock, 0)

	all, _ := orders.List(ctx, repositories.OrderQuery{})
	assert.Len(t, all, 10, "exactly as many orders as there was stock")
	assert.Equal(t, 0, got.Stock)
}

func TestSnapshotSurvivesProductEditAndDelete(t *testing.T) {
	svc, products, orders, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, products, "Desk Lamp", 45, 20)

	placed, err := svc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: p.ID.Hex(), Quantity: 2},
	))
	require.NoError(t, err)

	// Reprice, rename, then delete the product entirely.
	updated, _ := products.Get(ctx, p.ID)
	updated.Name = "Desk Lamp v2"
	updated.Price = 99
	require.NoError(t, products.Update(ctx, updated))
	require.NoError(t, products.Delete(ctx, p.ID))

	got, err := orders.Get(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", got.Items[0].ProductName)
	assert.Equal(t, 45.0, got.Items[0].Price)
	assert.InDelta(t, 90, got.TotalAmount, 1e-9)
}

func TestUpdateStatusAnyToAny(t *testing.T) {
	svc, products, _, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, products, "Mug", 9.99, 100)

	o, err := svc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: p.ID.Hex(), Quantity: 1},
	))
	require.NoError(t, err)

	// Forward and backward hops are both allowed.
	for _, status := range []string{
		models.OrderDelivered, models.OrderPending, models.OrderCancelled, models.OrderShipped,
	} {
		got, err := svc.UpdateStatus(ctx, services.Actor{}, o.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)
	_, err := svc.UpdateStatus(context.Background(), services.Actor{}, primitive.NewObjectID(), models.OrderShipped)
	assert.True(t, apperr.IsNotFound(err))
}

func TestOrderActivityUsesShortOrderLabel(t *testing.T) {
	products := repositories.NewMemoryProductRepository()
	orders := repositories.NewMemoryOrderRepository()
	activities := repositories.NewMemoryActivityRepository()
	recorder := services.NewActivityRecorder(activities)
	svc := services.NewOrderService(orders, products, recorder, nil)
	ctx := context.Background()

	p := seedProduct(t, products, "Mug", 9.99, 100)
	o, err := svc.Place(ctx, services.Actor{}, placeInput(
		services.OrderItemInput{ProductID: p.ID.Hex(), Quantity: 1},
	))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, services.Actor{}, o.ID, models.OrderShipped)
	require.NoError(t, err)
	recorder.Close() // flushes the queue

	items, err := activities.List(ctx, repositories.ActivityQuery{EntityType: models.EntityOrder})
	require.NoError(t, err)
	require.Len(t, items, 2)

	hex := o.ID.Hex()
	label := "Order #" + hex[len(hex)-6:]
	assert.Equal(t, label, items[0].EntityName)
	assert.Equal(t, label, items[1].EntityName)
	assert.Equal(t, "Updated order status to: shipped", items[0].Description, "newest first")
	assert.Equal(t, "Created order with 1 items - Total: ₹9.99", items[1].Description)
}
