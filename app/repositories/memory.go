package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/pkg/apperr"
)

// In-memory repositories. They honor the same contracts as the Mongo
// implementations (conditional stock decrement included) so service tests
// exercise real semantics without a database.

// ─── Products ─────────────────────────────────────────────────────────────────

type MemoryProductRepository struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{items: map[primitive.ObjectID]models.Product{}}
}

func (r *MemoryProductRepository) List(_ context.Context, q ProductQuery) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Product{}
	search := strings.ToLower(q.Search)
	for _, p := range r.items {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		out = append(out, p)
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "name":
			less = out[i].Name < out[j].Name
		case "price":
			less = out[i].Price < out[j].Price
		case "stock":
			less = out[i].Stock < out[j].Stock
		default:
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if q.Desc {
			return !less
		}
		return less
	})
	return out, nil
}

func (r *MemoryProductRepository) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	return &p, nil
}

func (r *MemoryProductRepository) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.SyncStatus()
	r.items[p.ID] = *p
	return nil
}

func (r *MemoryProductRepository) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return apperr.NotFound("Product")
	}
	p.UpdatedAt = time.Now().UTC()
	p.SyncStatus()
	r.items[p.ID] = *p
	return nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperr.NotFound("Product")
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryProductRepository) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFoundID("Product", id.Hex())
	}
	if p.Stock < qty {
		return nil, &apperr.InsufficientStockError{ProductName: p.Name, Available: p.Stock}
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	p.SyncStatus()
	r.items[id] = p
	return &p, nil
}

func (r *MemoryProductRepository) ReleaseStock(_ context.Context, id primitive.ObjectID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return apperr.NotFound("Product")
	}
	p.Stock += qty
	p.UpdatedAt = time.Now().UTC()
	p.SyncStatus()
	r.items[id] = p
	return nil
}

func (r *MemoryProductRepository) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *MemoryProductRepository) CountByStatus(_ context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.items {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *MemoryProductRepository) CountLowStock(_ context.Context, threshold int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.items {
		if p.Stock > 0 && p.Stock <= threshold {
			n++
		}
	}
	return n, nil
}

func (r *MemoryProductRepository) CategoryStats(_ context.Context) ([]CategoryStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCat := map[string]*CategoryStat{}
	for _, p := range r.items {
		s, ok := byCat[p.Category]
		if !ok {
			s = &CategoryStat{Category: p.Category}
			byCat[p.Category] = s
		}
		s.Count++
		s.TotalValue += p.Price * float64(p.Stock)
	}
	stats := []CategoryStat{}
	for _, s := range byCat {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return stats, nil
}

func (r *MemoryProductRepository) LowStockAlerts(_ context.Context, threshold int) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.items {
		if p.Stock <= threshold && p.Status == models.StatusActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

// ─── Orders ───────────────────────────────────────────────────────────────────

type MemoryOrderRepository struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{items: map[primitive.ObjectID]models.Order{}}
}

func (r *MemoryOrderRepository) List(_ context.Context, q OrderQuery) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Order{}
	for _, o := range r.items {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "totalAmount":
			less = out[i].TotalAmount < out[j].TotalAmount
		case "customerName":
			less = out[i].CustomerName < out[j].CustomerName
		case "status":
			less = out[i].Status < out[j].Status
		default:
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if q.Desc {
			return !less
		}
		return less
	})
	return out, nil
}

func (r *MemoryOrderRepository) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("Order")
	}
	return &o, nil
}

func (r *MemoryOrderRepository) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now().UTC()
	r.items[o.ID] = *o
	return nil
}

func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("Order")
	}
	o.Status = status
	r.items[id] = o
	return &o, nil
}

func (r *MemoryOrderRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperr.NotFound("Order")
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryOrderRepository) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *MemoryOrderRepository) TotalRevenue(_ context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, o := range r.items {
		total += o.TotalAmount
	}
	return total, nil
}

func (r *MemoryOrderRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, o := range r.items {
		out[o.Status]++
	}
	return out, nil
}

func (r *MemoryOrderRepository) TopProducts(_ context.Context, limit int64) ([]TopProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byProduct := map[primitive.ObjectID]*TopProduct{}
	for _, o := range r.items {
		for _, it := range o.Items {
			tp, ok := byProduct[it.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: it.ProductID, ProductName: it.ProductName}
				byProduct[it.ProductID] = tp
			}
			tp.TotalSold += int64(it.Quantity)
			tp.Revenue += it.Price * float64(it.Quantity)
		}
	}
	rows := []TopProduct{}
	for _, tp := range byProduct {
		rows = append(rows, *tp)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	if int64(len(rows)) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *MemoryOrderRepository) SalesTrend(_ context.Context, days int) ([]SalesPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	since := time.Now().UTC().AddDate(0, 0, -days)
	byDay := map[string]*SalesPoint{}
	for _, o := range r.items {
		if o.CreatedAt.Before(since) {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		sp, ok := byDay[day]
		if !ok {
			sp = &SalesPoint{Date: day}
			byDay[day] = sp
		}
		sp.Orders++
		sp.Revenue += o.TotalAmount
	}
	points := []SalesPoint{}
	for _, sp := range byDay {
		points = append(points, *sp)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

// ─── Activity ─────────────────────────────────────────────────────────────────

type MemoryActivityRepository struct {
	mu    sync.Mutex
	items []models.Activity
}

func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{}
}

func (r *MemoryActivityRepository) Insert(_ context.Context, a *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = primitive.NewObjectID()
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	r.items = append(r.items, *a)
	return nil
}

func (r *MemoryActivityRepository) List(_ context.Context, q ActivityQuery) ([]models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	out := []models.Activity{}
	for i := len(r.items) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		a := r.items[i]
		if q.EntityType != "" && a.EntityType != q.EntityType {
			continue
		}
		if q.Action != "" && a.Action != q.Action {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *MemoryActivityRepository) ListByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	out := []models.Activity{}
	for i := len(r.items) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

// ─── Users ────────────────────────────────────────────────────────────────────

type MemoryUserRepository struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{items: map[primitive.ObjectID]models.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return apperr.ErrEmailTaken
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	r.items[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &u, nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.items {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryUserRepository) UpdateRole(_ context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	u.Role = role
	r.items[id] = u
	return &u, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryUserRepository) CountByRole(_ context.Context) ([]RoleCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byRole := map[string]int64{}
	for _, u := range r.items {
		byRole[u.Role]++
	}
	rows := []RoleCount{}
	for role, n := range byRole {
		rows = append(rows, RoleCount{Role: role, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Role < rows[j].Role })
	return rows, nil
}

func (r *MemoryUserRepository) Recent(_ context.Context, limit int64) ([]models.User, error) {
	users, _ := r.List(context.Background())
	if limit <= 0 {
		limit = 5
	}
	if int64(len(users)) > limit {
		users = users[:limit]
	}
	return users, nil
}
