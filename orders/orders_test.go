package orders

import (
	"errors"
	"testing"
	"time"

	"voltshop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func f(v float64) *float64 { return &v }

func product(title string, regular float64, sale *float64) models.Product {
	return models.Product{
		ID:    primitive.NewObjectID(),
		Title: title,
		Price: models.Price{Regular: regular, Sale: sale},
	}
}

func TestGenerateOrderID(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)

	id := GenerateOrderID(now)
	assert.Len(t, id, orderIDLength)
	assert.Equal(t, "260901", id[:6], "id starts with the yymmdd date")
	for _, c := range id {
		assert.True(t, c >= '0' && c <= '9', "order ids are all digits")
	}

	// Two ids from different instants should differ in the reversed
	// timestamp tail even if the random block collides.
	other := GenerateOrderID(now.Add(137 * time.Millisecond))
	assert.NotEqual(t, id[10:], other[10:])
}

func TestBuildLinesTotalsAndSubtotal(t *testing.T) {
	lines := []Line{
		{Product: product("Router", 100, f(80)), Quantity: 3},
		{Product: product("Cable", 50, nil), Quantity: 2},
	}

	details, subtotal, err := BuildLines(lines)
	require.NoError(t, err)
	require.Len(t, details, 2)

	assert.Equal(t, 80.0, details[0].UnitPrice, "sale price wins")
	assert.Equal(t, 240.0, details[0].Total)
	assert.Equal(t, 100.0, details[1].Total)
	assert.Equal(t, 340.0, subtotal)
}

func TestBuildLinesRejectsDeletedProduct(t *testing.T) {
	p := product("Old SKU", 100, nil)
	p.IsDeleted = true

	_, _, err := BuildLines([]Line{{Product: p, Quantity: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Old SKU", "rejection names the product")
}

func TestBuildLinesRejectsVanishedVariation(t *testing.T) {
	p := product("Router", 100, nil)
	gone := primitive.NewObjectID()

	_, _, err := BuildLines([]Line{{Product: p, VariationID: &gone, Quantity: 1}})
	require.Error(t, err)
}

func TestBuildLinesEmpty(t *testing.T) {
	_, _, err := BuildLines(nil)
	require.Error(t, err)
}

func TestBuildLinesCarriesPrevWarranty(t *testing.T) {
	prev := &models.PrevWarrantyInformation{
		WarrantyID: primitive.NewObjectID(),
		Code:       "WR-ABC123-0001",
		StartsAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	details, _, err := BuildLines([]Line{{
		Product:      product("Router", 100, nil),
		Quantity:     1,
		PrevWarranty: prev,
	}})
	require.NoError(t, err)
	assert.Equal(t, prev, details[0].PrevWarrantyInformation,
		"the original warranty window passes through unchanged")
}

func TestValidatePayment(t *testing.T) {
	assert.NoError(t, ValidatePayment("cash_on_delivery", "", ""))
	assert.NoError(t, ValidatePayment("bkash", "01700000000", "TRX123"))
	assert.Error(t, ValidatePayment("bkash", "", "TRX123"), "mobile banking needs a phone number")
	assert.Error(t, ValidatePayment("bkash", "01700000000", ""), "mobile banking needs a transaction id")
	assert.Error(t, ValidatePayment("paypal", "", ""), "unknown method")
}

func TestAdvanceOnlyForCustomOrders(t *testing.T) {
	assert.Equal(t, 0.0, Advance(CartSource{}, 50), "non-custom orders force advance to zero")
	assert.Equal(t, 0.0, Advance(SalesPageSource{}, 50))
	assert.Equal(t, 50.0, Advance(CustomSource{}, 50))
	assert.Equal(t, 70.0, Advance(CustomSource{Advance: 70}, 50), "source-level advance wins")
}

func TestConsumesCart(t *testing.T) {
	assert.True(t, ConsumesCart(CartSource{}))
	assert.True(t, ConsumesCart(WarrantyClaimSource{}))
	assert.False(t, ConsumesCart(SalesPageSource{}), "sales-page orders leave the cart untouched")
	assert.False(t, ConsumesCart(CustomSource{}))
}

func TestResolveSourceDefaultsToCart(t *testing.T) {
	src, err := resolveSource(checkoutPayload{})
	require.NoError(t, err)
	assert.IsType(t, CartSource{}, src)
}

func TestResolveSourceRejectsMultipleBlocks(t *testing.T) {
	var p checkoutPayload
	p.SalesPage = &struct {
		ProductID   string            `json:"productId"`
		VariationID string            `json:"variationId,omitempty"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		Quantity    int64             `json:"quantity"`
		URL         string            `json:"url,omitempty"`
	}{ProductID: primitive.NewObjectID().Hex(), Quantity: 1}
	p.WarrantyClaim = &struct {
		ClaimID string `json:"claimId"`
	}{ClaimID: primitive.NewObjectID().Hex()}

	_, err := resolveSource(p)
	require.Error(t, err)
}

func TestResolveSourceSalesPageDefaultsQuantity(t *testing.T) {
	var p checkoutPayload
	p.SalesPage = &struct {
		ProductID   string            `json:"productId"`
		VariationID string            `json:"variationId,omitempty"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		Quantity    int64             `json:"quantity"`
		URL         string            `json:"url,omitempty"`
	}{ProductID: primitive.NewObjectID().Hex(), URL: "https://shop.example/landing"}

	src, err := resolveSource(p)
	require.NoError(t, err)
	sp, ok := src.(SalesPageSource)
	require.True(t, ok)
	assert.Equal(t, int64(1), sp.Quantity)
	assert.Equal(t, "https://shop.example/landing", sp.URL)
}

func TestStockEffectRoundTrip(t *testing.T) {
	// cancel releases stock once, retrieve takes it once: net zero.
	assert.Equal(t, +1, StockEffect(models.OrderStatusPending, models.OrderStatusCanceled))
	assert.Equal(t, -1, StockEffect(models.OrderStatusCanceled, models.OrderStatusPending))

	// moving between two inactive states moves nothing.
	assert.Equal(t, 0, StockEffect(models.OrderStatusCanceled, models.OrderStatusDeleted))
	// nor between two active ones.
	assert.Equal(t, 0, StockEffect(models.OrderStatusPending, models.OrderStatusProcessing))
	assert.Equal(t, 0, StockEffect(models.OrderStatusShipped, models.OrderStatusCompleted))

	assert.Equal(t, +1, StockEffect(models.OrderStatusShipped, models.OrderStatusDeleted))
}

func TestClaimConsumeFilterMatchesUnsetNewOrderID(t *testing.T) {
	// A freshly filed claim omits newOrderId from its document, so the
	// consume filter has to accept the absent field alongside the
	// empty string; bare equality with "" never matches it.
	claim := models.WarrantyClaim{ID: primitive.NewObjectID(), Status: models.ClaimPending}
	raw, err := bson.Marshal(claim)
	require.NoError(t, err)
	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	_, present := doc["newOrderId"]
	require.False(t, present, "pending claims store no newOrderId field")

	filter := claimConsumeFilter(claim.ID)
	assert.Equal(t, claim.ID, filter["_id"])
	assert.Equal(t, bson.M{"$in": bson.A{"", nil}}, filter["newOrderId"])
}

func TestRetryOnDuplicate(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}

	calls := 0
	err := retryOnDuplicate(3, func() error {
		calls++
		if calls == 1 {
			return dup
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "a duplicate id gets one fresh attempt")

	calls = 0
	err = retryOnDuplicate(3, func() error {
		calls++
		return dup
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls, "attempts are bounded")

	calls = 0
	boom := errors.New("boom")
	err = retryOnDuplicate(3, func() error {
		calls++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls, "only duplicate keys are retried")
}

func TestStatusSetTogglesVisibility(t *testing.T) {
	now := time.Now()

	set := statusSet(models.OrderStatusDeleted, now)
	assert.Equal(t, true, set["isDeleted"])
	assert.Equal(t, models.OrderStatusDeleted, set["status"])

	// Retrieving a deleted order must surface it again in listings.
	for _, to := range []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusCanceled,
	} {
		set := statusSet(to, now)
		assert.Equal(t, false, set["isDeleted"], "status %s", to)
	}
}
