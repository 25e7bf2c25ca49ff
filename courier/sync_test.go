package courier

import (
	"testing"
	"time"

	"voltshop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMapDeliveryStatus(t *testing.T) {
	internal, done := MapDeliveryStatus("delivered")
	assert.True(t, done)
	assert.Equal(t, models.OrderStatusCompleted, internal)

	for _, external := range []string{"pending", "in_transit", "hold", "partial_delivered"} {
		_, done := MapDeliveryStatus(external)
		assert.False(t, done, "%q must not complete the order", external)
	}
}

func TestOnlySteadfastImplemented(t *testing.T) {
	_, ok := clients["steadfast"]
	assert.True(t, ok)

	for _, provider := range []string{"pathao", "redx", "paperfly"} {
		_, ok := clients[provider]
		assert.False(t, ok, "%q should fall through to the no-courier-found path", provider)
	}
}

func TestPlanSyncSplitsCompletions(t *testing.T) {
	delivered := syncResult{order: models.Order{ID: primitive.NewObjectID()}, external: "delivered"}
	moving := syncResult{order: models.Order{ID: primitive.NewObjectID()}, external: "in_transit"}

	completions, writes := planSync([]syncResult{delivered, moving}, time.Now())

	// Delivered orders complete through the full status transition;
	// a bare status write would skip history and warranty minting.
	require.Len(t, completions, 1)
	assert.Equal(t, delivered.order.ID, completions[0].order.ID)

	require.Len(t, writes, 1)
	model, ok := writes[0].(*mongo.UpdateOneModel)
	require.True(t, ok)
	set := model.Update.(bson.M)["$set"].(bson.M)
	assert.Equal(t, "in_transit", set["deliveryStatus"])
	_, hasStatus := set["status"]
	assert.False(t, hasStatus, "bulk write never touches order status")
}
