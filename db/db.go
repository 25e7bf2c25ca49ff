package db

import (
	"context"
	"time"

	"voltshop/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client

	UserCollection           *mongo.Collection
	AddressCollection        *mongo.Collection
	ProductCollection        *mongo.Collection
	InventoryCollection      *mongo.Collection
	CartCollection           *mongo.Collection
	CartItemCollection       *mongo.Collection
	OrderCollection          *mongo.Collection
	PaymentCollection        *mongo.Collection
	ShippingCollection       *mongo.Collection
	StatusHistoryCollection  *mongo.Collection
	ShippingChargeCollection *mongo.Collection
	CouponCollection         *mongo.Collection
	CourierCollection        *mongo.Collection
	WarrantyCollection       *mongo.Collection
	WarrantyClaimCollection  *mongo.Collection
)

// Init connects to MongoDB and binds the collection handles. Must be
// called once before any store code runs.
func Init(ctx context.Context, cfg config.Config) error {
	opts := options.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return err
	}

	Client = client
	d := client.Database(cfg.MongoDB)

	UserCollection = d.Collection("users")
	AddressCollection = d.Collection("addresses")
	ProductCollection = d.Collection("products")
	InventoryCollection = d.Collection("inventories")
	CartCollection = d.Collection("carts")
	CartItemCollection = d.Collection("cartitems")
	OrderCollection = d.Collection("orders")
	PaymentCollection = d.Collection("orderpayments")
	ShippingCollection = d.Collection("shippings")
	StatusHistoryCollection = d.Collection("orderstatushistories")
	ShippingChargeCollection = d.Collection("shippingcharges")
	CouponCollection = d.Collection("coupons")
	CourierCollection = d.Collection("couriers")
	WarrantyCollection = d.Collection("warranties")
	WarrantyClaimCollection = d.Collection("warrantyclaims")

	return EnsureIndexes(ctx)
}

// Close disconnects the client. Used on shutdown.
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
