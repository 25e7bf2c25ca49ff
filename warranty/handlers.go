package warranty

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/middleware"
	"voltshop/models"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LookupWarranty handles GET /api/warranty/:code — the public check a
// customer runs before filing a claim.
func LookupWarranty(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := strings.ToUpper(strings.TrimSpace(ps.ByName("code")))

	var warranty models.Warranty
	if err := db.WarrantyCollection.FindOne(ctx, bson.M{"code": code}).Decode(&warranty); err != nil {
		utils.RespondWithError(w, apperr.NotFound("Warranty not found"))
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"warranty": warranty,
		"valid":    !warranty.Claimed && time.Now().Before(warranty.EndsAt),
	})
}

// WarrantyCard handles GET /api/warranty/:code/card — a PNG QR code
// pointing at the warranty lookup, printed onto packaging.
func WarrantyCard(baseURL string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := strings.ToUpper(strings.TrimSpace(ps.ByName("code")))
		png, err := qrcode.Encode(baseURL+"/api/warranty/"+code, qrcode.Medium, 256)
		if err != nil {
			utils.RespondWithError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

type claimInput struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// CreateClaim handles POST /api/warranty/claims: a customer files a
// replacement request against an unexpired, unclaimed warranty.
func CreateClaim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := middleware.UserID(r.Context())

	var input claimInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}
	code := strings.ToUpper(strings.TrimSpace(input.Code))

	var warranty models.Warranty
	if err := db.WarrantyCollection.FindOne(ctx, bson.M{"code": code}).Decode(&warranty); err != nil {
		utils.RespondWithError(w, apperr.NotFound("Warranty not found"))
		return
	}
	if warranty.Claimed {
		utils.RespondWithError(w, apperr.Conflict("This warranty has already been claimed"))
		return
	}
	if time.Now().After(warranty.EndsAt) {
		utils.RespondWithError(w, apperr.BadRequest("Warranty has expired"))
		return
	}

	now := time.Now()
	claim := models.WarrantyClaim{
		ID:          primitive.NewObjectID(),
		WarrantyID:  warranty.ID,
		Code:        warranty.Code,
		Reason:      input.Reason,
		Status:      models.ClaimPending,
		RequestedBy: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := db.WarrantyClaimCollection.InsertOne(ctx, claim); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, claim)
}

// ReviewClaim handles PATCH /api/warranty/claims/:claimid — staff
// approve or reject a pending claim. An approved claim becomes
// checkout-able as a warranty-claim order source.
func ReviewClaim(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claimID, err := primitive.ObjectIDFromHex(ps.ByName("claimid"))
	if err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid claim id"))
		return
	}

	var input struct {
		Status models.WarrantyClaimStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		(input.Status != models.ClaimApproved && input.Status != models.ClaimRejected) {
		utils.RespondWithError(w, apperr.BadRequest("Status must be approved or rejected"))
		return
	}

	res, err := db.WarrantyClaimCollection.UpdateOne(ctx,
		bson.M{"_id": claimID, "status": models.ClaimPending},
		bson.M{"$set": bson.M{
			"status":     input.Status,
			"reviewedBy": middleware.UserID(r.Context()),
			"updatedAt":  time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, apperr.NotFound("No pending claim with that id"))
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"reviewed": true})
}
