package inventory

import (
	"context"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusInStock    = "in_stock"
	StatusOutOfStock = "out_of_stock"
)

// key selects the inventory record for a product or one of its
// variations.
func key(productID primitive.ObjectID, variationID *primitive.ObjectID) bson.M {
	filter := bson.M{"productId": productID}
	if variationID != nil {
		filter["variationId"] = variationID
	} else {
		filter["variationId"] = nil
	}
	return filter
}

// DecrementFilter is the guarded filter for a stock decrement: the
// record must hold at least qty units, so a race between two checkouts
// can never drive stock negative.
func DecrementFilter(productID primitive.ObjectID, variationID *primitive.ObjectID, qty int64) bson.M {
	filter := key(productID, variationID)
	filter["stockQuantity"] = bson.M{"$gte": qty}
	return filter
}

// Get returns the stock record, or a not-found error.
func Get(ctx context.Context, productID primitive.ObjectID, variationID *primitive.ObjectID) (models.Inventory, error) {
	var inv models.Inventory
	if err := db.InventoryCollection.FindOne(ctx, key(productID, variationID)).Decode(&inv); err != nil {
		return inv, apperr.NotFound("Inventory record not found")
	}
	return inv, nil
}

// Decrement atomically takes qty units of stock. Zero matched
// documents means the product has less stock than requested (or no
// inventory record at all) and fails the caller's transaction.
func Decrement(ctx context.Context, productID primitive.ObjectID, variationID *primitive.ObjectID, qty int64, productTitle string) error {
	res, err := db.InventoryCollection.UpdateOne(ctx,
		DecrementFilter(productID, variationID, qty),
		bson.M{
			"$inc": bson.M{"stockQuantity": -qty},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.Newf(409, "Insufficient stock for %q", productTitle)
	}
	// Refresh the derived label when the counter hit zero.
	labelFilter := key(productID, variationID)
	labelFilter["stockQuantity"] = bson.M{"$lte": 0}
	_, err = db.InventoryCollection.UpdateOne(ctx,
		labelFilter,
		bson.M{"$set": bson.M{"stockStatus": StatusOutOfStock}},
	)
	return err
}

// Increment returns qty units of stock, e.g. when an order is canceled.
func Increment(ctx context.Context, productID primitive.ObjectID, variationID *primitive.ObjectID, qty int64) error {
	res, err := db.InventoryCollection.UpdateOne(ctx,
		key(productID, variationID),
		bson.M{
			"$inc": bson.M{"stockQuantity": qty},
			"$set": bson.M{"stockStatus": StatusInStock, "updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Inventory record not found")
	}
	return nil
}

// ReverseForOrder adjusts stock when an order changes lifecycle state:
// canceling or deleting releases each line's units back, retrieving a
// canceled order takes them again. Runs inside the caller's
// transaction; a single failed line fails the whole operation.
func ReverseForOrder(ctx context.Context, order models.Order, retrieve bool) error {
	for _, line := range order.ProductDetails {
		var err error
		if retrieve {
			err = Decrement(ctx, line.ProductID, nil, line.Quantity, line.Title)
		} else {
			err = Increment(ctx, line.ProductID, nil, line.Quantity)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
