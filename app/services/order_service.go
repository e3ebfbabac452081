package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/pkg/apperr"
	"github.com/rsharma-dev/inventra/pkg/logger"
	"github.com/rsharma-dev/inventra/pkg/metrics"
)

// OrderItemInput is one requested line of a placement.
type OrderItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderInput is the validated placement payload.
type PlaceOrderInput struct {
	CustomerName    string           `json:"customerName" validate:"required"`
	CustomerEmail   string           `json:"customerEmail" validate:"required,email"`
	Items           []OrderItemInput `json:"items" validate:"required"`
	ShippingAddress string           `json:"shippingAddress" validate:"required"`
}

// UpdateOrderStatusInput sets a new order status.
type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required,in=pending,processing,shipped,delivered,cancelled"`
}

// OrderService implements order placement and lifecycle.
type OrderService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	recorder *ActivityRecorder
	onChange func()
}

func NewOrderService(orders repositories.OrderRepository, products repositories.ProductRepository, recorder *ActivityRecorder, onChange func()) *OrderService {
	if onChange == nil {
		onChange = func() {}
	}
	return &OrderService{orders: orders, products: products, recorder: recorder, onChange: onChange}
}

func (s *OrderService) List(ctx context.Context, q repositories.OrderQuery) ([]models.Order, error) {
	return s.orders.List(ctx, q)
}

func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

// Place reserves stock for each requested line in input order, snapshots
// name and price at reservation time, and persists the order. If any line
// fails, every earlier reservation is released and nothing is written, so
// a failed placement leaves net stock unchanged.
func (s *OrderService) Place(ctx context.Context, actor Actor, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation(map[string]string{"items": "The items field is required."})
	}
	for i, line := range in.Items {
		if line.Quantity < 1 {
			return nil, apperr.Validation(map[string]string{
				fmt.Sprintf("items.%d.quantity", i): "The quantity must be at least 1.",
			})
		}
	}

	type reservation struct {
		id  primitive.ObjectID
		qty int
	}
	var reserved []reservation

	release := func() {
		for _, r := range reserved {
			if err := s.products.ReleaseStock(ctx, r.id, r.qty); err != nil {
				logger.Error("orders: release after failed placement",
					"productId", r.id.Hex(), "qty", r.qty, "error", err)
			}
		}
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	var total float64
	for _, line := range in.Items {
		pid, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			release()
			return nil, apperr.NotFoundID("Product", line.ProductID)
		}
		p, err := s.products.ReserveStock(ctx, pid, line.Quantity)
		if err != nil {
			release()
			if apperr.IsInsufficientStock(err) {
				metrics.StockRejections.Inc()
			}
			return nil, err
		}
		reserved = append(reserved, reservation{id: pid, qty: line.Quantity})
		items = append(items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			Price:       p.Price,
		})
		total += p.Price * float64(line.Quantity)
	}

	o := &models.Order{
		UserID:          actor.ID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: in.ShippingAddress,
		Status:          models.OrderPending,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		release()
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	metrics.OrderValue.Observe(total)

	s.recorder.Record(models.Activity{
		UserID:      actor.ID,
		UserName:    actor.Name,
		EntityType:  models.EntityOrder,
		EntityID:    o.ID,
		EntityName:  orderLabel(o.ID),
		Action:      models.ActionOrdered,
		Description: fmt.Sprintf("Created order with %d items - Total: ₹%.2f", len(items), total),
	})
	s.onChange()
	return o, nil
}

// UpdateStatus sets the order status. Any enumerated value is accepted
// regardless of the current one; the input validation already rejected
// anything outside the enum.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status string) (*models.Order, error) {
	o, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(models.Activity{
		UserID:      actor.ID,
		UserName:    actor.Name,
		EntityType:  models.EntityOrder,
		EntityID:    o.ID,
		EntityName:  orderLabel(o.ID),
		Action:      models.ActionUpdated,
		Description: fmt.Sprintf("Updated order status to: %s", status),
	})
	s.onChange()
	return o, nil
}

// orderLabel is the short feed label for an order, built from the last
// six hex characters of its id.
func orderLabel(id primitive.ObjectID) string {
	hex := id.Hex()
	return "Order #" + hex[len(hex)-6:]
}

func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.onChange()
	return nil
}
