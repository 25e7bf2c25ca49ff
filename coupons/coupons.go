package coupons

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/models"
	"voltshop/pricing"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolve looks a coupon up by code and returns it with the absolute
// discount it grants on the given subtotal. Inactive, expired and
// below-min-spend coupons are rejected.
func Resolve(ctx context.Context, code string, subtotal float64) (models.Coupon, float64, error) {
	var coupon models.Coupon

	code = strings.TrimSpace(strings.ToLower(code))
	if code == "" {
		return coupon, 0, apperr.BadRequest("No coupon provided")
	}
	if err := db.CouponCollection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon); err != nil {
		return coupon, 0, apperr.NotFound("Coupon not found")
	}
	if !coupon.Active {
		return coupon, 0, apperr.BadRequest("Coupon inactive")
	}
	if time.Now().After(coupon.ExpiresAt) {
		return coupon, 0, apperr.BadRequest("Coupon expired")
	}
	if subtotal < coupon.MinSpend {
		return coupon, 0, apperr.Newf(http.StatusBadRequest, "Coupon requires a minimum spend of %.0f", coupon.MinSpend)
	}
	return coupon, pricing.CouponDiscount(coupon, subtotal), nil
}

type couponRequest struct {
	Code string  `json:"code"`
	Cart float64 `json:"cart"` // cart subtotal
}

// ValidateCoupon lets the storefront pre-check a code before checkout.
func ValidateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}

	coupon, discount, err := Resolve(ctx, req.Code, req.Cart)
	if err != nil {
		ae := apperr.From(err)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"valid":    false,
			"discount": 0,
			"message":  ae.Message,
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"valid":    true,
		"discount": discount,
		"message":  "Coupon applied successfully",
		"code":     coupon.Code,
	})
}

// CreateCoupon is the admin endpoint for minting codes.
func CreateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var coupon models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}
	coupon.Code = strings.TrimSpace(strings.ToLower(coupon.Code))
	if coupon.Code == "" || coupon.Discount <= 0 || coupon.Discount > 100 {
		utils.RespondWithError(w, apperr.BadRequest("Code and a discount percent between 1 and 100 are required"))
		return
	}
	coupon.ID = primitive.NewObjectID()
	coupon.CreatedAt = time.Now()

	if _, err := db.CouponCollection.InsertOne(ctx, coupon); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, coupon)
}
