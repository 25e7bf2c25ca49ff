package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WarrantyClaimStatus string

const (
	ClaimPending  WarrantyClaimStatus = "pending"
	ClaimApproved WarrantyClaimStatus = "approved"
	ClaimRejected WarrantyClaimStatus = "rejected"
)

// Warranty is minted per ordered unit; Code is a globally unique token.
type Warranty struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Code      string             `json:"code" bson:"code"`
	OrderID   string             `json:"orderId" bson:"orderId"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	StartsAt  time.Time          `json:"startsAt" bson:"startsAt"`
	EndsAt    time.Time          `json:"endsAt" bson:"endsAt"`
	Claimed   bool               `json:"claimed" bson:"claimed"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// WarrantyClaim records a replacement request against a warranty and,
// once approved and checked out, the replacement order it produced.
type WarrantyClaim struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id"`
	WarrantyID  primitive.ObjectID  `json:"warrantyId" bson:"warrantyId"`
	Code        string              `json:"code" bson:"code"`
	Reason      string              `json:"reason" bson:"reason"`
	Status      WarrantyClaimStatus `json:"status" bson:"status"`
	NewOrderID  string              `json:"newOrderId,omitempty" bson:"newOrderId,omitempty"`
	RequestedBy string              `json:"requestedBy" bson:"requestedBy"`
	ReviewedBy  string              `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}
