package inventory

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stretchr/testify/assert"
)

func TestDecrementFilterGuardsStock(t *testing.T) {
	pid := primitive.NewObjectID()

	filter := DecrementFilter(pid, nil, 6)
	assert.Equal(t, pid, filter["productId"])
	assert.Nil(t, filter["variationId"], "product-level records match a nil variation key")
	assert.Equal(t, bson.M{"$gte": int64(6)}, filter["stockQuantity"],
		"decrement must only match records holding at least the requested quantity")
}

func TestDecrementFilterVariationScoped(t *testing.T) {
	pid := primitive.NewObjectID()
	vid := primitive.NewObjectID()

	filter := DecrementFilter(pid, &vid, 1)
	assert.Equal(t, &vid, filter["variationId"])
}
