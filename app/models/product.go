package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories. Kept in sync with the client's category picker.
const (
	CategoryElectronics = "Electronics"
	CategoryClothing    = "Clothing"
	CategoryFood        = "Food"
	CategoryBooks       = "Books"
	CategoryHome        = "Home"
	CategorySports      = "Sports"
	CategoryOther       = "Other"
)

// Product statuses.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusOutOfStock = "out-of-stock"
)

// ProductCategories lists every valid category value.
var ProductCategories = []string{
	CategoryElectronics, CategoryClothing, CategoryFood,
	CategoryBooks, CategoryHome, CategorySports, CategoryOther,
}

// ProductStatuses lists every valid status value.
var ProductStatuses = []string{StatusActive, StatusInactive, StatusOutOfStock}

// Product represents a catalogue item.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId,omitempty" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Stock       int                `bson:"stock" json:"stock"`
	Status      string             `bson:"status" json:"status"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SyncStatus enforces the stock/status invariant before every persist:
// zero stock always means out-of-stock, and a product whose stock was
// replenished flips back to active.
func (p *Product) SyncStatus() {
	if p.Stock == 0 {
		p.Status = StatusOutOfStock
	} else if p.Status == StatusOutOfStock {
		p.Status = StatusActive
	}
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidProductStatus reports whether s is one of the known statuses.
func ValidProductStatus(s string) bool {
	for _, v := range ProductStatuses {
		if v == s {
			return true
		}
	}
	return false
}
