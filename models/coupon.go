package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coupon struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Code     string             `json:"code" bson:"code"`
	Discount float64            `json:"discount" bson:"discount"` // % value e.g. 10 means 10%
	// MaxDiscount caps the absolute discount; zero means uncapped.
	MaxDiscount float64   `json:"maxDiscount,omitempty" bson:"maxDiscount,omitempty"`
	MinSpend    float64   `json:"minSpend,omitempty" bson:"minSpend,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt" bson:"expiresAt"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
