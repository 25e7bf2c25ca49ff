package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a cart. Exactly one of UserID/SessionID is
// set, mirroring the owning Cart. ExpiresAt is set only for anonymous
// sessions and drives the TTL index.
type CartItem struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id"`
	UserID      string              `json:"userId,omitempty" bson:"userId,omitempty"`
	SessionID   string              `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	ProductID   primitive.ObjectID  `json:"productId" bson:"productId"`
	VariationID *primitive.ObjectID `json:"variationId,omitempty" bson:"variationId,omitempty"`
	Attributes  map[string]string   `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Quantity    int64               `json:"quantity" bson:"quantity"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	AddedAt     time.Time           `json:"addedAt" bson:"addedAt"`
}

// Cart is the parent document referencing its items. Exactly one of
// UserID/SessionID is set.
type Cart struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id"`
	UserID    string               `json:"userId,omitempty" bson:"userId,omitempty"`
	SessionID string               `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	ItemIDs   []primitive.ObjectID `json:"itemIds" bson:"itemIds"`
	ExpiresAt *time.Time           `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// ResolvedCartLine is a cart item joined with current catalog state at
// read time. Prices always reflect the catalog, never a stale copy.
type ResolvedCartLine struct {
	Item                 CartItem `json:"item"`
	Title                string   `json:"title"`
	UnitPrice            float64  `json:"unitPrice"`
	LineTotal            float64  `json:"lineTotal"`
	StockQuantity        int64    `json:"stockQuantity"`
	VariationUnavailable bool     `json:"variationUnavailable,omitempty"`
}
