package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity entity types.
const (
	EntityProduct = "product"
	EntityOrder   = "order"
	EntityUser    = "user"
)

// Activity actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionOrdered = "ordered"
)

// Activity is one append-only audit record. UserName is denormalized so
// the feed renders without a join.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId,omitempty" json:"userId"`
	UserName    string             `bson:"userName" json:"userName"`
	EntityType  string             `bson:"entityType" json:"entityType"`
	EntityID    primitive.ObjectID `bson:"entityId,omitempty" json:"entityId"`
	EntityName  string             `bson:"entityName" json:"entityName"`
	Action      string             `bson:"action" json:"action"`
	Description string             `bson:"description" json:"description"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}
