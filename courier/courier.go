package courier

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/models"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateCourier stores a delivery provider's credentials.
func CreateCourier(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var courier models.Courier
	if err := json.NewDecoder(r.Body).Decode(&courier); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}
	courier.Name = strings.ToLower(strings.TrimSpace(courier.Name))
	if courier.Name == "" || courier.BaseURL == "" {
		utils.RespondWithError(w, apperr.BadRequest("Name and base URL are required"))
		return
	}
	courier.ID = primitive.NewObjectID()
	courier.CreatedAt = time.Now()

	if _, err := db.CourierCollection.InsertOne(ctx, courier); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, courier)
}

// AssignToOrder handles PATCH /api/orders/:orderid/courier — staff
// hand a shipped order to a provider with its tracking id.
func AssignToOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	var input struct {
		CourierID  string `json:"courierId"`
		TrackingID string `json:"trackingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.TrackingID == "" {
		utils.RespondWithError(w, apperr.BadRequest("Courier id and tracking id are required"))
		return
	}
	courierID, err := primitive.ObjectIDFromHex(input.CourierID)
	if err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid courier id"))
		return
	}

	var courier models.Courier
	if err := db.CourierCollection.FindOne(ctx, bson.M{"_id": courierID, "active": true}).Decode(&courier); err != nil {
		utils.RespondWithError(w, apperr.NotFound("Courier not found"))
		return
	}

	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID, "isDeleted": false},
		bson.M{"$set": bson.M{
			"courierId":      courierID,
			"trackingId":     input.TrackingID,
			"deliveryStatus": "pending",
			"status":         models.OrderStatusShipped,
			"updatedAt":      time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, apperr.NotFound("Order not found"))
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"assigned": true})
}

// FindByID loads one courier's credentials.
func FindByID(ctx context.Context, id primitive.ObjectID) (models.Courier, error) {
	var courier models.Courier
	if err := db.CourierCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&courier); err != nil {
		return courier, apperr.NotFound("Courier not found")
	}
	return courier, nil
}
