package pricing

import (
	"math"

	"voltshop/models"
)

// EffectiveUnitPrice resolves the price one unit actually sells for:
// a variation override wins, else the sale price, else the regular
// price.
func EffectiveUnitPrice(price models.Price, variation *models.Variation) float64 {
	if variation != nil && variation.Price != nil {
		return *variation.Price
	}
	if price.Sale != nil {
		return *price.Sale
	}
	return price.Regular
}

// LineTotal is quantity times unit price, rounded to the nearest whole
// amount.
func LineTotal(unitPrice float64, quantity int64) float64 {
	return math.Round(unitPrice * float64(quantity))
}

// CouponDiscount computes the absolute discount a coupon grants on a
// subtotal: percent of subtotal, capped by MaxDiscount when set. A
// subtotal below MinSpend earns nothing.
func CouponDiscount(c models.Coupon, subtotal float64) float64 {
	if subtotal <= 0 || subtotal < c.MinSpend {
		return 0
	}
	discount := math.Round(subtotal * c.Discount / 100)
	if c.MaxDiscount > 0 && discount > c.MaxDiscount {
		discount = c.MaxDiscount
	}
	return discount
}

// OrderTotal applies the creation-time invariant:
// total = subtotal + shippingCharge - discount - advance.
func OrderTotal(subtotal, shippingCharge, discount, advance float64) float64 {
	return subtotal + shippingCharge - discount - advance
}
