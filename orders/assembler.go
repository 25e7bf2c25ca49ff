package orders

import (
	"context"
	"log"
	"time"

	"voltshop/apperr"
	"voltshop/cart"
	"voltshop/config"
	"voltshop/coupons"
	"voltshop/db"
	"voltshop/identity"
	"voltshop/inventory"
	"voltshop/models"
	"voltshop/pricing"
	"voltshop/products"
	"voltshop/rdx"
	"voltshop/tracking"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checkoutLockTTL = 10 * time.Second

// paymentMethods maps each accepted method to whether it requires
// transaction details (payer phone + transaction id).
var paymentMethods = map[string]bool{
	"cash_on_delivery": false,
	"bkash":            true,
	"nagad":            true,
	"rocket":           true,
}

// ValidatePayment checks the method exists and carries the details it
// requires.
func ValidatePayment(method, phoneNumber, transactionID string) error {
	needsDetails, ok := paymentMethods[method]
	if !ok {
		return apperr.BadRequest("Unknown payment method")
	}
	if needsDetails && (phoneNumber == "" || transactionID == "") {
		return apperr.Newf(400, "Payment method %q requires a phone number and transaction id", method)
	}
	return nil
}

// Line is one resolved product ready for pricing: the live catalog
// document plus the requested quantity.
type Line struct {
	Product      models.Product
	VariationID  *primitive.ObjectID
	Attributes   map[string]string
	Quantity     int64
	PrevWarranty *models.PrevWarrantyInformation
}

// BuildLines snapshots each line into order product details and
// accumulates the subtotal. Soft-deleted products and vanished
// variations reject the whole checkout.
func BuildLines(lines []Line) ([]models.OrderProductDetails, float64, error) {
	if len(lines) == 0 {
		return nil, 0, apperr.BadRequest("Nothing to order")
	}

	details := make([]models.OrderProductDetails, 0, len(lines))
	var subtotal float64
	for _, l := range lines {
		if l.Product.IsDeleted {
			return nil, 0, apperr.Newf(400, "Product %q is no longer available", l.Product.Title)
		}
		if l.Quantity <= 0 {
			return nil, 0, apperr.BadRequest("Quantity must be positive")
		}

		var variation *models.Variation
		if l.VariationID != nil {
			variation = l.Product.Variation(*l.VariationID)
			if variation == nil {
				return nil, 0, apperr.Newf(400, "Variation no longer available for %q", l.Product.Title)
			}
		}

		unit := pricing.EffectiveUnitPrice(l.Product.Price, variation)
		total := pricing.LineTotal(unit, l.Quantity)
		details = append(details, models.OrderProductDetails{
			ProductID:               l.Product.ID,
			VariationID:             l.VariationID,
			Title:                   l.Product.Title,
			Attributes:              l.Attributes,
			UnitPrice:               unit,
			Quantity:                l.Quantity,
			Total:                   total,
			WarrantyDays:            l.Product.WarrantyDays,
			PrevWarrantyInformation: l.PrevWarranty,
		})
		subtotal += total
	}
	return details, subtotal, nil
}

// Service assembles orders.
type Service struct {
	cfg config.Config
}

func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// resolveLines materializes the source's product list with a live
// catalog read per line — a read-then-decide snapshot, never a blind
// copy of stale cart data.
func (s *Service) resolveLines(sc mongo.SessionContext, ident identity.Identity, src Source) ([]Line, error) {
	switch v := src.(type) {
	case CartSource:
		items, err := cart.LoadItems(sc, ident)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, apperr.BadRequest("Cart is empty")
		}
		lines := make([]Line, 0, len(items))
		for _, item := range items {
			product, err := products.GetActive(sc, item.ProductID)
			if err != nil {
				return nil, err
			}
			lines = append(lines, Line{
				Product:     product,
				VariationID: item.VariationID,
				Attributes:  item.Attributes,
				Quantity:    item.Quantity,
			})
		}
		return lines, nil

	case SalesPageSource:
		product, err := products.GetActive(sc, v.ProductID)
		if err != nil {
			return nil, err
		}
		return []Line{{
			Product:     product,
			VariationID: v.VariationID,
			Attributes:  v.Attributes,
			Quantity:    v.Quantity,
		}}, nil

	case CustomSource:
		lines := make([]Line, 0, len(v.Items))
		for _, item := range v.Items {
			product, err := products.GetActive(sc, item.ProductID)
			if err != nil {
				return nil, err
			}
			lines = append(lines, Line{
				Product:     product,
				VariationID: item.VariationID,
				Quantity:    item.Quantity,
			})
		}
		return lines, nil

	case WarrantyClaimSource:
		return s.resolveClaimLines(sc, v.ClaimID)

	default:
		return nil, apperr.BadRequest("Unknown order source")
	}
}

// resolveClaimLines loads an approved, unconsumed claim and produces
// the single replacement line carrying the original warranty window.
func (s *Service) resolveClaimLines(sc mongo.SessionContext, claimID primitive.ObjectID) ([]Line, error) {
	var claim models.WarrantyClaim
	if err := db.WarrantyClaimCollection.FindOne(sc, bson.M{"_id": claimID}).Decode(&claim); err != nil {
		return nil, apperr.NotFound("Warranty claim not found")
	}
	if claim.Status != models.ClaimApproved {
		return nil, apperr.BadRequest("Warranty claim is not approved")
	}
	if claim.NewOrderID != "" {
		return nil, apperr.Conflict("Warranty claim already produced a replacement order")
	}

	var warranty models.Warranty
	if err := db.WarrantyCollection.FindOne(sc, bson.M{"_id": claim.WarrantyID}).Decode(&warranty); err != nil {
		return nil, apperr.NotFound("Warranty not found")
	}

	product, err := products.GetActive(sc, warranty.ProductID)
	if err != nil {
		return nil, err
	}

	return []Line{{
		Product:  product,
		Quantity: 1,
		PrevWarranty: &models.PrevWarrantyInformation{
			WarrantyID: warranty.ID,
			Code:       warranty.Code,
			StartsAt:   warranty.StartsAt,
			EndsAt:     warranty.EndsAt,
		},
	}}, nil
}

// CheckoutRequest carries everything CreateOrder needs beyond the
// source itself.
type CheckoutRequest struct {
	Source        Source
	PaymentMethod string
	PhoneNumber   string
	TransactionID string
	ShippingChg   primitive.ObjectID
	CouponCode    string
	Advance       float64
	Shipping      models.Shipping
	SourceURL     string
}

// CreateOrder runs the whole checkout as one transaction: resolve and
// snapshot the product list, take stock, validate payment, create the
// Payment/Shipping/StatusHistory satellites, persist the Order, upsert
// the user's saved address and consume the cart. Commit-or-abort; the
// purchase-tracking event fires only after commit.
func (s *Service) CreateOrder(ctx context.Context, ident identity.Identity, req CheckoutRequest) (models.Order, error) {
	var order models.Order

	// One checkout at a time per identity.
	lockKey := "checkout_lock:" + ident.UserID + ident.SessionID
	acquired, err := rdx.RdxSetNX(lockKey, "1", checkoutLockTTL)
	if err != nil || !acquired {
		return order, apperr.New(429, "Another checkout is in progress, please retry")
	}
	defer func() {
		if err := rdx.RdxDel(lockKey); err != nil {
			log.Println("checkout lock release error:", err)
		}
	}()

	if err := ValidatePayment(req.PaymentMethod, req.PhoneNumber, req.TransactionID); err != nil {
		return order, err
	}
	if req.Shipping.FullName == "" || req.Shipping.PhoneNumber == "" || req.Shipping.FullAddress == "" {
		return order, apperr.BadRequest("Shipping name, phone number and address are required")
	}

	// A duplicate order id aborts the whole transaction, so the retry
	// re-runs it from the top with a fresh id.
	err = retryOnDuplicate(3, func() error {
		return db.WithTxn(ctx, func(sc mongo.SessionContext) error {
			lines, err := s.resolveLines(sc, ident, req.Source)
			if err != nil {
				return err
			}

			details, subtotal, err := BuildLines(lines)
			if err != nil {
				return err
			}

			// Stock is tracked per product; variations share the counter.
			for _, d := range details {
				if err := inventory.Decrement(sc, d.ProductID, nil, d.Quantity, d.Title); err != nil {
					return err
				}
			}

			var charge models.ShippingCharge
			if err := db.ShippingChargeCollection.FindOne(sc, bson.M{"_id": req.ShippingChg}).Decode(&charge); err != nil {
				return apperr.NotFound("Shipping charge not found")
			}

			var couponID *primitive.ObjectID
			var discount float64
			if req.CouponCode != "" {
				coupon, d, err := coupons.Resolve(sc, req.CouponCode, subtotal)
				if err != nil {
					return err
				}
				couponID = &coupon.ID
				discount = d
			}

			advance := Advance(req.Source, req.Advance)
			now := time.Now()

			payment := models.Payment{
				ID:            primitive.NewObjectID(),
				Method:        req.PaymentMethod,
				PhoneNumber:   req.PhoneNumber,
				TransactionID: req.TransactionID,
				CreatedAt:     now,
			}
			shipping := req.Shipping
			shipping.ID = primitive.NewObjectID()
			shipping.CreatedAt = now
			history := models.StatusHistory{
				ID:      primitive.NewObjectID(),
				History: []models.StatusHistoryEntry{},
			}

			order = models.Order{
				ID:               primitive.NewObjectID(),
				UserID:           ident.UserID,
				SessionID:        ident.SessionID,
				ProductDetails:   details,
				PaymentID:        payment.ID,
				ShippingID:       shipping.ID,
				StatusHistoryID:  history.ID,
				ShippingChargeID: charge.ID,
				CouponID:         couponID,
				Discount:         discount,
				Subtotal:         subtotal,
				Total:            pricing.OrderTotal(subtotal, charge.Amount, discount, advance),
				Advance:          advance,
				Status:           models.OrderStatusPending,
				OrderSource: models.OrderSource{
					Channel: req.Source.Channel(),
					URL:     req.SourceURL,
				},
				CreatedAt: now,
				UpdatedAt: now,
			}

			order.OrderID = GenerateOrderID(time.Now())
			if _, err := db.OrderCollection.InsertOne(sc, order); err != nil {
				return err
			}

			payment.OrderID = order.OrderID
			shipping.OrderID = order.OrderID
			history.OrderID = order.OrderID
			if _, err := db.PaymentCollection.InsertOne(sc, payment); err != nil {
				return err
			}
			if _, err := db.ShippingCollection.InsertOne(sc, shipping); err != nil {
				return err
			}
			if _, err := db.StatusHistoryCollection.InsertOne(sc, history); err != nil {
				return err
			}

			if claimSrc, ok := req.Source.(WarrantyClaimSource); ok {
				if err := consumeClaim(sc, claimSrc.ClaimID, order.OrderID); err != nil {
					return err
				}
			}

			if ident.IsAuthenticated() {
				if err := upsertAddress(sc, ident.UserID, shipping); err != nil {
					return err
				}
			}

			if ConsumesCart(req.Source) {
				if err := cart.Clear(sc, ident); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return models.Order{}, err
	}

	// Best-effort conversion tracking; never surfaces to the caller.
	go tracking.EmitPurchase(s.cfg, order)

	return order, nil
}

// retryOnDuplicate runs fn up to attempts times, stopping at the first
// result that is not a duplicate-key error.
func retryOnDuplicate(attempts int, fn func() error) error {
	for i := 0; i < attempts; i++ {
		if err := fn(); !apperr.IsDuplicateKey(err) {
			return err
		}
	}
	return apperr.Conflict("Could not allocate a unique order id")
}

// claimConsumeFilter matches the claim only while no replacement order
// is linked yet. Freshly filed claims omit newOrderId entirely, so
// absence has to match alongside the empty string.
func claimConsumeFilter(claimID primitive.ObjectID) bson.M {
	return bson.M{"_id": claimID, "newOrderId": bson.M{"$in": bson.A{"", nil}}}
}

// consumeClaim links the claim to its replacement order and marks the
// warranty claimed, all inside the checkout transaction.
func consumeClaim(sc mongo.SessionContext, claimID primitive.ObjectID, orderID string) error {
	res, err := db.WarrantyClaimCollection.UpdateOne(sc,
		claimConsumeFilter(claimID),
		bson.M{"$set": bson.M{"newOrderId": orderID, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.Conflict("Warranty claim already consumed")
	}

	var claim models.WarrantyClaim
	if err := db.WarrantyClaimCollection.FindOne(sc, bson.M{"_id": claimID}).Decode(&claim); err != nil {
		return err
	}
	_, err = db.WarrantyCollection.UpdateOne(sc,
		bson.M{"_id": claim.WarrantyID},
		bson.M{"$set": bson.M{"claimed": true}},
	)
	return err
}

// upsertAddress saves the shipping payload as the user's address book
// entry.
func upsertAddress(sc mongo.SessionContext, userID string, shipping models.Shipping) error {
	opts := options.Update().SetUpsert(true)
	_, err := db.AddressCollection.UpdateOne(sc,
		bson.M{"userId": userID},
		bson.M{
			"$set": bson.M{
				"fullName":    shipping.FullName,
				"phoneNumber": shipping.PhoneNumber,
				"fullAddress": shipping.FullAddress,
				"district":    shipping.District,
				"subDistrict": shipping.SubDistrict,
				"updatedAt":   time.Now(),
			},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "userId": userID},
		},
		opts,
	)
	return err
}
