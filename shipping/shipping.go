package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/models"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateCharge is the admin endpoint for delivery fee tiers.
func CreateCharge(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var charge models.ShippingCharge
	if err := json.NewDecoder(r.Body).Decode(&charge); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}
	if charge.Name == "" || charge.Amount < 0 {
		utils.RespondWithError(w, apperr.BadRequest("Name and a non-negative amount are required"))
		return
	}
	charge.ID = primitive.NewObjectID()

	if _, err := db.ShippingChargeCollection.InsertOne(ctx, charge); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, charge)
}

// ListCharges lets the storefront show delivery options at checkout.
func ListCharges(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.ShippingChargeCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	defer cursor.Close(ctx)

	var charges []models.ShippingCharge
	if err := cursor.All(ctx, &charges); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if len(charges) == 0 {
		charges = []models.ShippingCharge{}
	}
	utils.RespondWithData(w, http.StatusOK, charges)
}
