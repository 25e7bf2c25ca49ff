package warranty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"voltshop/db"
	"voltshop/models"
	"voltshop/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewCode mints a warranty token: a short uppercase segment of a UUID
// prefixed for human recognizability. Global uniqueness is enforced by
// the unique index on the warranties collection.
func NewCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(utils.GetUUID(), "-", ""))
	return fmt.Sprintf("WR-%s-%s", raw[:6], utils.GenerateRandomDigitString(4))
}

// MintForOrder creates one warranty per ordered unit of every
// warrantied product on the order. Runs inside the caller's
// transaction when an order completes. The warranty window starts at
// completion time.
func MintForOrder(ctx context.Context, order models.Order) error {
	now := time.Now()
	var docs []interface{}
	for _, line := range order.ProductDetails {
		if line.WarrantyDays <= 0 {
			continue
		}
		for unit := int64(0); unit < line.Quantity; unit++ {
			docs = append(docs, models.Warranty{
				ID:        primitive.NewObjectID(),
				Code:      NewCode(),
				OrderID:   order.OrderID,
				ProductID: line.ProductID,
				StartsAt:  now,
				EndsAt:    now.AddDate(0, 0, line.WarrantyDays),
				CreatedAt: now,
			})
		}
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := db.WarrantyCollection.InsertMany(ctx, docs)
	return err
}
