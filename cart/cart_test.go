package cart

import (
	"testing"
	"time"

	"voltshop/identity"
	"voltshop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func f(v float64) *float64 { return &v }

func TestCartUpsertOneCartPerIdentity(t *testing.T) {
	ident := identity.Anonymous("sess-1")
	now := time.Now()

	first, firstUpdate := cartUpsert(ident, primitive.NewObjectID(), now, nil)
	second, _ := cartUpsert(ident, primitive.NewObjectID(), now, nil)

	// Both adds target the same filter; with upsert semantics the
	// second add can only push into the cart the first one created.
	assert.Equal(t, first, second)
	assert.Equal(t, bson.M{"sessionId": "sess-1"}, first)

	push, ok := firstUpdate["$push"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, push, "itemIds")
}

func TestCartUpsertGuestExpiry(t *testing.T) {
	s := NewService(72 * time.Hour)
	now := time.Now()

	assert.Nil(t, s.expiry(identity.Authenticated("u1"), now), "authenticated carts never expire")

	exp := s.expiry(identity.Anonymous("sess-1"), now)
	require.NotNil(t, exp)
	assert.WithinDuration(t, now.Add(72*time.Hour), *exp, time.Second)

	_, update := cartUpsert(identity.Anonymous("sess-1"), primitive.NewObjectID(), now, exp)
	setOnInsert := update["$setOnInsert"].(bson.M)
	assert.Equal(t, exp, setOnInsert["expiresAt"])
	assert.Equal(t, "sess-1", setOnInsert["sessionId"])
}

func TestResolveLinePrefersCurrentCatalogPrice(t *testing.T) {
	item := models.CartItem{Quantity: 3}
	product := models.Product{
		Title: "Router",
		Price: models.Price{Regular: 100, Sale: f(80)},
	}
	inv := models.Inventory{StockQuantity: 5}

	line := ResolveLine(item, product, inv)
	assert.Equal(t, 80.0, line.UnitPrice)
	assert.Equal(t, 240.0, line.LineTotal)
	assert.Equal(t, int64(5), line.StockQuantity)
	assert.False(t, line.VariationUnavailable)
}

func TestResolveLineVariationVanished(t *testing.T) {
	gone := primitive.NewObjectID()
	item := models.CartItem{Quantity: 1, VariationID: &gone}
	product := models.Product{
		Title: "Router",
		Price: models.Price{Regular: 100},
		Variations: []models.Variation{
			{ID: primitive.NewObjectID(), Name: "black"},
		},
	}

	line := ResolveLine(item, product, models.Inventory{})
	assert.True(t, line.VariationUnavailable)
	assert.Zero(t, line.UnitPrice, "vanished variations are flagged, not priced")
}

func TestResolveLineVariationOverride(t *testing.T) {
	vid := primitive.NewObjectID()
	item := models.CartItem{Quantity: 2, VariationID: &vid}
	product := models.Product{
		Title: "Router",
		Price: models.Price{Regular: 100, Sale: f(80)},
		Variations: []models.Variation{
			{ID: vid, Name: "pro", Price: f(120)},
		},
	}

	line := ResolveLine(item, product, models.Inventory{StockQuantity: 9})
	assert.Equal(t, 120.0, line.UnitPrice)
	assert.Equal(t, 240.0, line.LineTotal)
}
