// Package repositories holds the persistence layer. Services depend on
// the interfaces here; the server wires the Mongo implementations and
// tests wire the in-memory ones.
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/models"
)

// ProductQuery filters and orders a catalogue listing. Zero values mean
// "no filter"; Sort defaults to createdAt, Desc to true.
type ProductQuery struct {
	Search   string // case-insensitive regex over name OR description
	Category string
	Status   string
	SortBy   string
	Desc     bool
}

// OrderQuery filters and orders an order listing.
type OrderQuery struct {
	Status string
	SortBy string
	Desc   bool
}

// ActivityQuery filters the audit feed.
type ActivityQuery struct {
	EntityType string
	Action     string
	Limit      int64
}

// CategoryStat is one row of the category breakdown: how many products a
// category holds and the stock value (price × stock) they represent.
type CategoryStat struct {
	Category   string  `bson:"_id" json:"category"`
	Count      int64   `bson:"count" json:"count"`
	TotalValue float64 `bson:"totalValue" json:"totalValue"`
}

// TopProduct is one row of the best-sellers breakdown.
type TopProduct struct {
	ProductID   primitive.ObjectID `bson:"_id" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	TotalSold   int64              `bson:"totalSold" json:"totalSold"`
	Revenue     float64            `bson:"revenue" json:"revenue"`
}

// SalesPoint is one day of the sales trend.
type SalesPoint struct {
	Date    string  `bson:"_id" json:"date"` // YYYY-MM-DD
	Orders  int64   `bson:"orders" json:"orders"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// RoleCount is one row of the user-role breakdown.
type RoleCount struct {
	Role  string `bson:"_id" json:"role"`
	Count int64  `bson:"count" json:"count"`
}

// ProductRepository persists products and answers inventory analytics.
type ProductRepository interface {
	List(ctx context.Context, q ProductQuery) ([]models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ReserveStock atomically decrements stock by qty iff stock >= qty,
	// returning the updated product. Returns apperr.NotFoundError when the
	// product is absent and apperr.InsufficientStockError when stock is
	// too low. Never drives stock negative under concurrency.
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)

	// ReleaseStock returns qty units, compensating a reservation whose
	// order could not complete.
	ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
	LowStockAlerts(ctx context.Context, threshold int) ([]models.Product, error)
}

// OrderRepository persists orders and answers sales analytics.
type OrderRepository interface {
	List(ctx context.Context, q OrderQuery) ([]models.Order, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	CountAll(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	TopProducts(ctx context.Context, limit int64) ([]TopProduct, error)
	SalesTrend(ctx context.Context, days int) ([]SalesPoint, error)
}

// ActivityRepository persists the append-only audit log.
type ActivityRepository interface {
	Insert(ctx context.Context, a *models.Activity) error
	List(ctx context.Context, q ActivityQuery) ([]models.Activity, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByRole(ctx context.Context) ([]RoleCount, error)
	Recent(ctx context.Context, limit int64) ([]models.User, error)
}
