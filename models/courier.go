package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Courier holds one delivery provider's API credentials.
type Courier struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Name      string             `json:"name" bson:"name"` // provider key, e.g. "steadfast"
	BaseURL   string             `json:"baseUrl" bson:"baseUrl"`
	APIKey    string             `json:"apiKey" bson:"apiKey"`
	APISecret string             `json:"apiSecret" bson:"apiSecret"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
