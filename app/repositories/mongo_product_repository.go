package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/pkg/apperr"
	"github.com/rsharma-dev/inventra/pkg/database"
)

// MongoProductRepository implements ProductRepository on MongoDB.
type MongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(db *database.DB) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection("products")}
}

func (r *MongoProductRepository) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	filter := bson.M{}
	if q.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"description": rx},
		}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	dir := 1
	if q.Desc {
		dir = -1
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: sortBy, Value: dir}}))
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products: decode: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Product")
	}
	if err != nil {
		return nil, fmt.Errorf("products: get: %w", err)
	}
	return &p, nil
}

func (r *MongoProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.SyncStatus()

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("products: create: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	p.SyncStatus()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

// ReserveStock decrements stock atomically with a stock >= qty guard in
// the filter, so concurrent reservations can never oversell. A failed
// match is disambiguated with a follow-up read: absent product vs
// insufficient stock.
func (r *MongoProductRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	filter := bson.M{"_id": id, "stock": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, gerr := r.Get(ctx, id)
		if gerr != nil {
			return nil, apperr.NotFoundID("Product", id.Hex())
		}
		return nil, &apperr.InsufficientStockError{
			ProductName: existing.Name,
			Available:   existing.Stock,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("products: reserve stock: %w", err)
	}

	// Persisting the invariant: the decrement may have emptied the shelf.
	if p.Stock == 0 && p.Status != models.StatusOutOfStock {
		p.SyncStatus()
		_, _ = r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": p.Status}})
	}
	return &p, nil
}

func (r *MongoProductRepository) ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	var p models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("Product")
	}
	if err != nil {
		return fmt.Errorf("products: release stock: %w", err)
	}
	if p.Status == models.StatusOutOfStock && p.Stock > 0 {
		_, _ = r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": models.StatusActive}})
	}
	return nil
}

// ─── Inventory analytics ──────────────────────────────────────────────────────

func (r *MongoProductRepository) CountAll(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoProductRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"status": status})
}

func (r *MongoProductRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"stock": bson.M{"$lte": threshold, "$gt": 0},
	})
}

func (r *MongoProductRepository) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
			"totalValue": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$price", "$stock"},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("products: category stats: %w", err)
	}
	stats := []CategoryStat{}
	if err := cur.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("products: category stats decode: %w", err)
	}
	return stats, nil
}

func (r *MongoProductRepository) LowStockAlerts(ctx context.Context, threshold int) ([]models.Product, error) {
	filter := bson.M{
		"stock":  bson.M{"$lte": threshold},
		"status": models.StatusActive,
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("products: low stock alerts: %w", err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products: low stock decode: %w", err)
	}
	return products, nil
}
