package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/pkg/apperr"
	"github.com/rsharma-dev/inventra/pkg/database"
)

// MongoOrderRepository implements OrderRepository on MongoDB.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *database.DB) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

func (r *MongoOrderRepository) List(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	filter := bson.M{}
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
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Order")
	}
	if err != nil {
		return nil, fmt.Errorf("orders: get: %w", err)
	}
	return &o, nil
}

func (r *MongoOrderRepository) Create(ctx context.Context, o *models.Order) error {
	o.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, o)
	if err != nil {
		return fmt.Errorf("orders: create: %w", err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o models.Order
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}}, opts).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Order")
	}
	if err != nil {
		return nil, fmt.Errorf("orders: update status: %w", err)
	}
	return &o, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Order")
	}
	return nil
}

// ─── Sales analytics ──────────────────────────────────────────────────────────

func (r *MongoOrderRepository) CountAll(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoOrderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalAmount"},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("orders: total revenue: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("orders: total revenue decode: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *MongoOrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("orders: count by status: %w", err)
	}
	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("orders: count by status decode: %w", err)
	}
	out := map[string]int64{}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *MongoOrderRepository) TopProducts(ctx context.Context, limit int64) ([]TopProduct, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$items.productId",
			"productName": bson.M{"$first": "$items.productName"},
			"totalSold":   bson.M{"$sum": "$items.quantity"},
			"revenue": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$items.price", "$items.quantity"},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"revenue": -1}}},
		{{Key: "$limit", Value: limit}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("orders: top products: %w", err)
	}
	rows := []TopProduct{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("orders: top products decode: %w", err)
	}
	return rows, nil
}

func (r *MongoOrderRepository) SalesTrend(ctx context.Context, days int) ([]SalesPoint, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalAmount"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("orders: sales trend: %w", err)
	}
	points := []SalesPoint{}
	if err := cur.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("orders: sales trend decode: %w", err)
	}
	return points, nil
}
