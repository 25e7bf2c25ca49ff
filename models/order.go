package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
	OrderStatusDeleted    OrderStatus = "deleted"
)

// OrderProductDetails is one snapshotted line of an order. Title and
// unit price are copied from the catalog at checkout time so later
// catalog edits never rewrite history.
type OrderProductDetails struct {
	ProductID   primitive.ObjectID  `json:"productId" bson:"productId"`
	VariationID *primitive.ObjectID `json:"variationId,omitempty" bson:"variationId,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Attributes  map[string]string   `json:"attributes,omitempty" bson:"attributes,omitempty"`
	UnitPrice   float64             `json:"unitPrice" bson:"unitPrice"`
	Quantity    int64               `json:"quantity" bson:"quantity"`
	Total       float64             `json:"total" bson:"total"`
	// Warranty window granted per unit, snapshotted from the product
	// at checkout. Zero means no warranty.
	WarrantyDays int `json:"warrantyDays,omitempty" bson:"warrantyDays,omitempty"`
	// Set when this line replaces a previously warrantied unit; the
	// original warranty window is carried through unchanged.
	PrevWarrantyInformation *PrevWarrantyInformation `json:"prevWarrantyInformation,omitempty" bson:"prevWarrantyInformation,omitempty"`
}

// PrevWarrantyInformation preserves the warranty window of the unit a
// claim replaced.
type PrevWarrantyInformation struct {
	WarrantyID primitive.ObjectID `json:"warrantyId" bson:"warrantyId"`
	Code       string             `json:"code" bson:"code"`
	StartsAt   time.Time          `json:"startsAt" bson:"startsAt"`
	EndsAt     time.Time          `json:"endsAt" bson:"endsAt"`
}

// OrderSourceChannel tags where a checkout's product list came from.
type OrderSourceChannel string

const (
	SourceCart          OrderSourceChannel = "cart"
	SourceCustom        OrderSourceChannel = "custom"
	SourceSalesPage     OrderSourceChannel = "sales_page"
	SourceWarrantyClaim OrderSourceChannel = "warranty_claim"
)

type OrderSource struct {
	Channel OrderSourceChannel `json:"channel" bson:"channel"`
	URL     string             `json:"url,omitempty" bson:"url,omitempty"`
}

type Order struct {
	ID               primitive.ObjectID    `json:"id" bson:"_id"`
	OrderID          string                `json:"orderId" bson:"orderId"`
	UserID           string                `json:"userId,omitempty" bson:"userId,omitempty"`
	SessionID        string                `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	ProductDetails   []OrderProductDetails `json:"productDetails" bson:"productDetails"`
	PaymentID        primitive.ObjectID    `json:"paymentId" bson:"paymentId"`
	ShippingID       primitive.ObjectID    `json:"shippingId" bson:"shippingId"`
	StatusHistoryID  primitive.ObjectID    `json:"statusHistoryId" bson:"statusHistoryId"`
	ShippingChargeID primitive.ObjectID    `json:"shippingChargeId" bson:"shippingChargeId"`
	CouponID         *primitive.ObjectID   `json:"couponId,omitempty" bson:"couponId,omitempty"`
	Discount         float64               `json:"discount" bson:"discount"`
	Subtotal         float64               `json:"subtotal" bson:"subtotal"`
	Total            float64               `json:"total" bson:"total"`
	Advance          float64               `json:"advance" bson:"advance"`
	Status           OrderStatus           `json:"status" bson:"status"`
	DeliveryStatus   string                `json:"deliveryStatus,omitempty" bson:"deliveryStatus,omitempty"`
	CourierID        *primitive.ObjectID   `json:"courierId,omitempty" bson:"courierId,omitempty"`
	TrackingID       string                `json:"trackingId,omitempty" bson:"trackingId,omitempty"`
	OrderSource      OrderSource           `json:"orderSource" bson:"orderSource"`
	IsDeleted        bool                  `json:"isDeleted" bson:"isDeleted"`
	CreatedAt        time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt" bson:"updatedAt"`
}

// Payment records how an order was (to be) paid. Methods that require
// transaction details carry the payer phone number and transaction id.
type Payment struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	OrderID       string             `json:"orderId" bson:"orderId"`
	Method        string             `json:"method" bson:"method"`
	PhoneNumber   string             `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	TransactionID string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// Shipping is the delivery address captured at checkout.
type Shipping struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	OrderID      string             `json:"orderId" bson:"orderId"`
	FullName     string             `json:"fullName" bson:"fullName"`
	PhoneNumber  string             `json:"phoneNumber" bson:"phoneNumber"`
	FullAddress  string             `json:"fullAddress" bson:"fullAddress"`
	District     string             `json:"district,omitempty" bson:"district,omitempty"`
	SubDistrict  string             `json:"subDistrict,omitempty" bson:"subDistrict,omitempty"`
	DeliveryNote string             `json:"deliveryNote,omitempty" bson:"deliveryNote,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// StatusHistoryEntry is one append-only log record of a status change.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	UpdatedBy string      `json:"updatedBy" bson:"updatedBy"`
	At        time.Time   `json:"at" bson:"at"`
}

type StatusHistory struct {
	ID      primitive.ObjectID   `json:"id" bson:"_id"`
	OrderID string               `json:"orderId" bson:"orderId"`
	History []StatusHistoryEntry `json:"history" bson:"history"`
}

// ShippingCharge is an admin-managed delivery fee tier.
type ShippingCharge struct {
	ID     primitive.ObjectID `json:"id" bson:"_id"`
	Name   string             `json:"name" bson:"name"`
	Amount float64            `json:"amount" bson:"amount"`
}
