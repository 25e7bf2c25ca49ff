package cart

import (
	"context"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/identity"
	"voltshop/inventory"
	"voltshop/models"
	"voltshop/products"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Service owns cart persistence. The guest TTL controls when anonymous
// carts expire.
type Service struct {
	guestTTL time.Duration
}

func NewService(guestTTL time.Duration) *Service {
	return &Service{guestTTL: guestTTL}
}

// expiry returns the TTL timestamp for a document owned by ident, nil
// for authenticated users whose carts never expire.
func (s *Service) expiry(ident identity.Identity, now time.Time) *time.Time {
	if ident.IsAuthenticated() {
		return nil
	}
	t := now.Add(s.guestTTL)
	return &t
}

// cartUpsert is the update that attaches a new item to the identity's
// cart, creating the parent document on first add. One cart per
// identity: the identity filter plus upsert guarantees two adds never
// produce two carts.
func cartUpsert(ident identity.Identity, itemID primitive.ObjectID, now time.Time, expires *time.Time) (bson.M, bson.M) {
	filter := ident.Filter()
	setOnInsert := bson.M{
		"_id":       primitive.NewObjectID(),
		"createdAt": now,
	}
	for k, v := range ident.Fields() {
		setOnInsert[k] = v
	}
	if expires != nil {
		setOnInsert["expiresAt"] = expires
	}
	update := bson.M{
		"$push":        bson.M{"itemIds": itemID},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": setOnInsert,
	}
	return filter, update
}

// AddItem validates the product and stock, then inserts the CartItem
// and attaches it to the parent Cart in one transaction — an item can
// never exist unreferenced by its cart.
func (s *Service) AddItem(ctx context.Context, ident identity.Identity, productID primitive.ObjectID, variationID *primitive.ObjectID, attributes map[string]string, qty int64) (models.CartItem, error) {
	var item models.CartItem
	if qty <= 0 {
		return item, apperr.BadRequest("Quantity must be positive")
	}

	err := db.WithTxn(ctx, func(sc mongo.SessionContext) error {
		product, err := products.GetActive(sc, productID)
		if err != nil {
			return err
		}
		if variationID != nil && product.Variation(*variationID) == nil {
			return apperr.BadRequest("Variation not found for this product")
		}

		inv, err := inventory.Get(sc, productID, nil)
		if err != nil {
			return err
		}
		if inv.StockQuantity < qty {
			return apperr.Newf(409, "Insufficient stock for %q", product.Title)
		}

		now := time.Now()
		expires := s.expiry(ident, now)
		item = models.CartItem{
			ID:          primitive.NewObjectID(),
			UserID:      ident.UserID,
			SessionID:   ident.SessionID,
			ProductID:   productID,
			VariationID: variationID,
			Attributes:  attributes,
			Quantity:    qty,
			ExpiresAt:   expires,
			AddedAt:     now,
		}
		if _, err := db.CartItemCollection.InsertOne(sc, item); err != nil {
			return err
		}

		filter, update := cartUpsert(ident, item.ID, now, expires)
		opts := options.Update().SetUpsert(true)
		_, err = db.CartCollection.UpdateOne(sc, filter, update, opts)
		return err
	})
	return item, err
}

// UpdateQuantity re-validates stock for the new quantity before
// applying it.
func (s *Service) UpdateQuantity(ctx context.Context, ident identity.Identity, itemID primitive.ObjectID, qty int64) error {
	if qty <= 0 {
		return apperr.BadRequest("Quantity must be positive")
	}

	return db.WithTxn(ctx, func(sc mongo.SessionContext) error {
		itemFilter := ident.Filter()
		itemFilter["_id"] = itemID

		var item models.CartItem
		if err := db.CartItemCollection.FindOne(sc, itemFilter).Decode(&item); err != nil {
			return apperr.NotFound("Cart item not found")
		}

		product, err := products.GetActive(sc, item.ProductID)
		if err != nil {
			return err
		}
		inv, err := inventory.Get(sc, item.ProductID, nil)
		if err != nil {
			return err
		}
		if inv.StockQuantity < qty {
			return apperr.Newf(409, "Insufficient stock for %q", product.Title)
		}

		_, err = db.CartItemCollection.UpdateOne(sc, itemFilter, bson.M{
			"$set": bson.M{"quantity": qty},
		})
		return err
	})
}

// RemoveItem deletes the CartItem and pulls its reference from the
// Cart atomically.
func (s *Service) RemoveItem(ctx context.Context, ident identity.Identity, itemID primitive.ObjectID) error {
	return db.WithTxn(ctx, func(sc mongo.SessionContext) error {
		itemFilter := ident.Filter()
		itemFilter["_id"] = itemID

		res, err := db.CartItemCollection.DeleteOne(sc, itemFilter)
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return apperr.NotFound("Cart item not found")
		}

		_, err = db.CartCollection.UpdateOne(sc, ident.Filter(), bson.M{
			"$pull": bson.M{"itemIds": itemID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		return err
	})
}

// LoadItems returns the raw cart items for an identity, oldest first.
func LoadItems(ctx context.Context, ident identity.Identity) ([]models.CartItem, error) {
	opts := options.Find().SetSort(bson.M{"addedAt": 1})
	cursor, err := db.CartItemCollection.Find(ctx, ident.Filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear removes the identity's cart and all its items. Called inside
// the checkout transaction once the cart's contents are consumed.
func Clear(ctx context.Context, ident identity.Identity) error {
	if _, err := db.CartItemCollection.DeleteMany(ctx, ident.Filter()); err != nil {
		return err
	}
	_, err := db.CartCollection.DeleteMany(ctx, ident.Filter())
	return err
}
