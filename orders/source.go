package orders

import (
	"voltshop/apperr"
	"voltshop/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source is the discriminated union of the ways a checkout's product
// list is obtained. The HTTP entry point resolves the request body
// into exactly one variant; the assembler only ever sees the union.
type Source interface {
	Channel() models.OrderSourceChannel
}

// CartSource consumes the caller's cart; the cart and its items are
// deleted inside the checkout transaction.
type CartSource struct{}

func (CartSource) Channel() models.OrderSourceChannel { return models.SourceCart }

// SalesPageSource is a single-item landing-page buy. The cart, if any,
// is left untouched.
type SalesPageSource struct {
	ProductID   primitive.ObjectID
	VariationID *primitive.ObjectID
	Attributes  map[string]string
	Quantity    int64
	URL         string
}

func (SalesPageSource) Channel() models.OrderSourceChannel { return models.SourceSalesPage }

// CustomItem is one admin-entered line.
type CustomItem struct {
	ProductID   primitive.ObjectID
	VariationID *primitive.ObjectID
	Quantity    int64
}

// CustomSource is an admin-entered product list. It is the only
// variant where an advance payment is honored.
type CustomSource struct {
	Items   []CustomItem
	Advance float64
}

func (CustomSource) Channel() models.OrderSourceChannel { return models.SourceCustom }

// WarrantyClaimSource substitutes a previously warrantied product: the
// new order carries one replacement line with the original warranty
// window attached.
type WarrantyClaimSource struct {
	ClaimID primitive.ObjectID
}

func (WarrantyClaimSource) Channel() models.OrderSourceChannel { return models.SourceWarrantyClaim }

// Advance returns the advance payment a source is allowed to carry:
// only custom orders may hold one, everything else is forced to zero.
func Advance(src Source, requested float64) float64 {
	if c, ok := src.(CustomSource); ok {
		if c.Advance > 0 {
			return c.Advance
		}
		return requested
	}
	return 0
}

// ConsumesCart reports whether checking out from src consumes the
// caller's cart.
func ConsumesCart(src Source) bool {
	switch src.(type) {
	case SalesPageSource, CustomSource:
		return false
	}
	return true
}

// checkoutPayload is the wire shape of a checkout request. Exactly one
// source block may be present; a bare payload means cart mode.
type checkoutPayload struct {
	PaymentMethod  string  `json:"paymentMethod"`
	PhoneNumber    string  `json:"phoneNumber,omitempty"`
	TransactionID  string  `json:"transactionId,omitempty"`
	ShippingCharge string  `json:"shippingChargeId"`
	CouponCode     string  `json:"couponCode,omitempty"`
	Advance        float64 `json:"advance,omitempty"`

	Shipping struct {
		FullName     string `json:"fullName"`
		PhoneNumber  string `json:"phoneNumber"`
		FullAddress  string `json:"fullAddress"`
		District     string `json:"district,omitempty"`
		SubDistrict  string `json:"subDistrict,omitempty"`
		DeliveryNote string `json:"deliveryNote,omitempty"`
	} `json:"shipping"`

	SalesPage *struct {
		ProductID   string            `json:"productId"`
		VariationID string            `json:"variationId,omitempty"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		Quantity    int64             `json:"quantity"`
		URL         string            `json:"url,omitempty"`
	} `json:"salesPage,omitempty"`

	Custom *struct {
		Items []struct {
			ProductID   string `json:"productId"`
			VariationID string `json:"variationId,omitempty"`
			Quantity    int64  `json:"quantity"`
		} `json:"items"`
		Advance float64 `json:"advance,omitempty"`
	} `json:"custom,omitempty"`

	WarrantyClaim *struct {
		ClaimID string `json:"claimId"`
	} `json:"warrantyClaim,omitempty"`
}

func parseOptionalVariation(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, apperr.BadRequest("Invalid variation id")
	}
	return &id, nil
}

// resolveSource turns the wire payload into exactly one Source
// variant. More than one source block is rejected.
func resolveSource(p checkoutPayload) (Source, error) {
	set := 0
	if p.SalesPage != nil {
		set++
	}
	if p.Custom != nil {
		set++
	}
	if p.WarrantyClaim != nil {
		set++
	}
	if set > 1 {
		return nil, apperr.BadRequest("At most one order source may be specified")
	}

	switch {
	case p.SalesPage != nil:
		productID, err := primitive.ObjectIDFromHex(p.SalesPage.ProductID)
		if err != nil {
			return nil, apperr.BadRequest("Invalid product id")
		}
		variationID, err := parseOptionalVariation(p.SalesPage.VariationID)
		if err != nil {
			return nil, err
		}
		qty := p.SalesPage.Quantity
		if qty <= 0 {
			qty = 1
		}
		return SalesPageSource{
			ProductID:   productID,
			VariationID: variationID,
			Attributes:  p.SalesPage.Attributes,
			Quantity:    qty,
			URL:         p.SalesPage.URL,
		}, nil

	case p.Custom != nil:
		if len(p.Custom.Items) == 0 {
			return nil, apperr.BadRequest("Custom order needs at least one item")
		}
		items := make([]CustomItem, 0, len(p.Custom.Items))
		for _, it := range p.Custom.Items {
			productID, err := primitive.ObjectIDFromHex(it.ProductID)
			if err != nil {
				return nil, apperr.BadRequest("Invalid product id")
			}
			variationID, err := parseOptionalVariation(it.VariationID)
			if err != nil {
				return nil, err
			}
			if it.Quantity <= 0 {
				return nil, apperr.BadRequest("Quantity must be positive")
			}
			items = append(items, CustomItem{ProductID: productID, VariationID: variationID, Quantity: it.Quantity})
		}
		return CustomSource{Items: items, Advance: p.Custom.Advance}, nil

	case p.WarrantyClaim != nil:
		claimID, err := primitive.ObjectIDFromHex(p.WarrantyClaim.ClaimID)
		if err != nil {
			return nil, apperr.BadRequest("Invalid claim id")
		}
		return WarrantyClaimSource{ClaimID: claimID}, nil

	default:
		return CartSource{}, nil
	}
}
