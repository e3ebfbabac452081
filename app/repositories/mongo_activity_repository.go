package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/pkg/database"
)

// MongoActivityRepository implements ActivityRepository on MongoDB.
type MongoActivityRepository struct {
	col *mongo.Collection
}

func NewMongoActivityRepository(db *database.DB) *MongoActivityRepository {
	return &MongoActivityRepository{col: db.Collection("activities")}
}

func (r *MongoActivityRepository) Insert(ctx context.Context, a *models.Activity) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("activity: insert: %w", err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoActivityRepository) List(ctx context.Context, q ActivityQuery) ([]models.Activity, error) {
	filter := bson.M{}
	if q.EntityType != "" {
		filter["entityType"] = q.EntityType
	}
	if q.Action != "" {
		filter["action"] = q.Action
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("activity: list: %w", err)
	}
	items := []models.Activity{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("activity: decode: %w", err)
	}
	return items, nil
}

func (r *MongoActivityRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("activity: list by user: %w", err)
	}
	items := []models.Activity{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("activity: decode: %w", err)
	}
	return items, nil
}
