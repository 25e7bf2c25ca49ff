package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the stores rely on: uniqueness of
// order ids, warranty codes and coupon codes, plus the TTL that expires
// anonymous carts. Carts set expiresAt per document, so the TTL index
// uses expireAfterSeconds 0.
func EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{OrderCollection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "orderId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "deliveryStatus", Value: 1}}},
		}},
		{WarrantyCollection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}},
		{CouponCollection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}},
		{CartCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "sessionId", Value: 1}}},
			{
				Keys:    bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		}},
		{CartItemCollection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		}},
		{InventoryCollection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "variationId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}},
	}

	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateMany(ctx, s.models); err != nil {
			return err
		}
	}
	return nil
}
