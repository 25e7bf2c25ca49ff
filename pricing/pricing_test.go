package pricing

import (
	"testing"
	"time"

	"voltshop/models"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestEffectiveUnitPrice(t *testing.T) {
	tests := []struct {
		name      string
		price     models.Price
		variation *models.Variation
		want      float64
	}{
		{"regular only", models.Price{Regular: 100}, nil, 100},
		{"sale wins over regular", models.Price{Regular: 100, Sale: f(80)}, nil, 80},
		{"variation override wins over sale", models.Price{Regular: 100, Sale: f(80)}, &models.Variation{Price: f(90)}, 90},
		{"variation without override falls back to sale", models.Price{Regular: 100, Sale: f(80)}, &models.Variation{}, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveUnitPrice(tt.price, tt.variation))
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 240.0, LineTotal(80, 3))
	assert.Equal(t, 100.0, LineTotal(33.33, 3)) // 99.99 rounds up
	assert.Equal(t, 0.0, LineTotal(50, 0))
}

func TestCouponDiscount(t *testing.T) {
	coupon := models.Coupon{Discount: 10, ExpiresAt: time.Now().Add(time.Hour), Active: true}

	assert.Equal(t, 24.0, CouponDiscount(coupon, 240))
	assert.Equal(t, 0.0, CouponDiscount(coupon, 0))

	coupon.MinSpend = 500
	assert.Equal(t, 0.0, CouponDiscount(coupon, 240), "below min spend earns nothing")

	coupon.MinSpend = 0
	coupon.MaxDiscount = 15
	assert.Equal(t, 15.0, CouponDiscount(coupon, 240), "capped at max discount")
}

func TestOrderTotal(t *testing.T) {
	// stock-5 scenario: 3 units at sale 80, charge 60, no discount, no advance
	assert.Equal(t, 300.0, OrderTotal(240, 60, 0, 0))
	assert.Equal(t, 230.0, OrderTotal(240, 60, 20, 50))
}
