package services

import (
	"context"
	"time"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/pkg/cache"
)

const (
	lowStockThreshold  = 10
	analyticsCacheKey  = "analytics:dashboard"
	inventoryCacheKey  = "analytics:inventory"
	analyticsCacheTTL  = 30 * time.Second
	salesTrendDays     = 7
	topProductsLimit   = 5
	recentActivityFeed = 10
)

// InventoryAnalytics is the product-side half of the dashboard payload.
type InventoryAnalytics struct {
	TotalProducts      int64                       `json:"totalProducts"`
	ActiveProducts     int64                       `json:"activeProducts"`
	LowStockProducts   int64                       `json:"lowStockProducts"`
	OutOfStockProducts int64                       `json:"outOfStockProducts"`
	CategoryStats      []repositories.CategoryStat `json:"categoryStats"`
}

// SalesAnalytics is the order-side half of the dashboard payload.
type SalesAnalytics struct {
	TotalOrders    int64                     `json:"totalOrders"`
	TotalRevenue   float64                   `json:"totalRevenue"`
	OrdersByStatus map[string]int64          `json:"ordersByStatus"`
	TopProducts    []repositories.TopProduct `json:"topProducts"`
	SalesTrend     []repositories.SalesPoint `json:"salesTrend"`
}

// Dashboard is the full analytics payload.
type Dashboard struct {
	Inventory        InventoryAnalytics `json:"inventory"`
	Sales            SalesAnalytics     `json:"sales"`
	RecentActivities []models.Activity  `json:"recentActivities"`
}

// InventoryReport backs the inventory-only endpoint.
type InventoryReport struct {
	LowStockAlerts       []models.Product            `json:"lowStockAlerts"`
	CategoryDistribution []repositories.CategoryStat `json:"categoryDistribution"`
}

// AnalyticsService aggregates dashboard numbers, cached in Redis so the
// dashboard's polling does not hammer the aggregation pipelines.
type AnalyticsService struct {
	products repositories.ProductRepository
	orders   repositories.OrderRepository
	activity repositories.ActivityRepository
}

func NewAnalyticsService(products repositories.ProductRepository, orders repositories.OrderRepository, activity repositories.ActivityRepository) *AnalyticsService {
	return &AnalyticsService{products: products, orders: orders, activity: activity}
}

// Invalidate drops the cached payloads. Wired as the onChange hook of the
// product and order services.
func (s *AnalyticsService) Invalidate() {
	_ = cache.Del(analyticsCacheKey, inventoryCacheKey)
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var cached Dashboard
	if cache.Get(analyticsCacheKey, &cached) {
		return &cached, nil
	}

	d := &Dashboard{}
	var err error

	if d.Inventory.TotalProducts, err = s.products.CountAll(ctx); err != nil {
		return nil, err
	}
	if d.Inventory.ActiveProducts, err = s.products.CountByStatus(ctx, models.StatusActive); err != nil {
		return nil, err
	}
	if d.Inventory.LowStockProducts, err = s.products.CountLowStock(ctx, lowStockThreshold); err != nil {
		return nil, err
	}
	if d.Inventory.OutOfStockProducts, err = s.products.CountByStatus(ctx, models.StatusOutOfStock); err != nil {
		return nil, err
	}
	if d.Inventory.CategoryStats, err = s.products.CategoryStats(ctx); err != nil {
		return nil, err
	}

	if d.Sales.TotalOrders, err = s.orders.CountAll(ctx); err != nil {
		return nil, err
	}
	if d.Sales.TotalRevenue, err = s.orders.TotalRevenue(ctx); err != nil {
		return nil, err
	}
	if d.Sales.OrdersByStatus, err = s.orders.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if d.Sales.TopProducts, err = s.orders.TopProducts(ctx, topProductsLimit); err != nil {
		return nil, err
	}
	if d.Sales.SalesTrend, err = s.orders.SalesTrend(ctx, salesTrendDays); err != nil {
		return nil, err
	}

	if d.RecentActivities, err = s.activity.List(ctx, repositories.ActivityQuery{Limit: recentActivityFeed}); err != nil {
		return nil, err
	}

	_ = cache.Set(analyticsCacheKey, d, analyticsCacheTTL)
	return d, nil
}

func (s *AnalyticsService) Inventory(ctx context.Context) (*InventoryReport, error) {
	var cached InventoryReport
	if cache.Get(inventoryCacheKey, &cached) {
		return &cached, nil
	}

	r := &InventoryReport{}
	var err error
	if r.LowStockAlerts, err = s.products.LowStockAlerts(ctx, lowStockThreshold); err != nil {
		return nil, err
	}
	if r.CategoryDistribution, err = s.products.CategoryStats(ctx); err != nil {
		return nil, err
	}

	_ = cache.Set(inventoryCacheKey, r, analyticsCacheTTL)
	return r, nil
}
