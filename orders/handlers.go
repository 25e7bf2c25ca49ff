package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/identity"
	"voltshop/middleware"
	"voltshop/models"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Checkout handles POST /api/orders: resolves the source variant from
// the payload and hands it to the assembler.
func (s *Service) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	ident, err := identity.FromRequest(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var payload checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}

	src, err := resolveSource(payload)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	// Custom orders are an admin/staff entry path.
	if _, ok := src.(CustomSource); ok {
		role := middleware.Role(r.Context())
		if role != string(models.RoleAdmin) && role != string(models.RoleStaff) {
			utils.RespondWithError(w, apperr.Forbidden("Custom orders require staff access"))
			return
		}
	}

	chargeID, err := primitive.ObjectIDFromHex(payload.ShippingCharge)
	if err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid shipping charge id"))
		return
	}

	sourceURL := ""
	if payload.SalesPage != nil {
		sourceURL = payload.SalesPage.URL
	}

	req := CheckoutRequest{
		Source:        src,
		PaymentMethod: payload.PaymentMethod,
		PhoneNumber:   payload.PhoneNumber,
		TransactionID: payload.TransactionID,
		ShippingChg:   chargeID,
		CouponCode:    payload.CouponCode,
		Advance:       payload.Advance,
		Shipping: models.Shipping{
			FullName:     payload.Shipping.FullName,
			PhoneNumber:  payload.Shipping.PhoneNumber,
			FullAddress:  payload.Shipping.FullAddress,
			District:     payload.Shipping.District,
			SubDistrict:  payload.Shipping.SubDistrict,
			DeliveryNote: payload.Shipping.DeliveryNote,
		},
		SourceURL: sourceURL,
	}

	order, err := s.CreateOrder(ctx, ident, req)
	if err != nil {
		log.Println("Checkout error:", err)
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, order)
}

// MyOrders lists the caller's own orders, newest first.
func (s *Service) MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident, err := identity.FromRequest(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	filter := ident.Filter()
	filter["isDeleted"] = false
	s.respondOrderList(ctx, w, filter)
}

// ListOrders is the admin view; ?status= filters by lifecycle state.
func (s *Service) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isDeleted": false}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	s.respondOrderList(ctx, w, filter)
}

func (s *Service) respondOrderList(ctx context.Context, w http.ResponseWriter, filter bson.M) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(100)
	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}
	utils.RespondWithData(w, http.StatusOK, orders)
}

// GetOrder returns one order with its satellites joined in.
func (s *Service) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, apperr.NotFound("Order not found"))
			return
		}
		utils.RespondWithError(w, err)
		return
	}

	// Customers can only read their own orders.
	role := middleware.Role(r.Context())
	if role != string(models.RoleAdmin) && role != string(models.RoleStaff) {
		ident, err := identity.FromRequest(r)
		if err != nil || (order.UserID != ident.UserID || order.SessionID != ident.SessionID) {
			utils.RespondWithError(w, apperr.Forbidden("Not your order"))
			return
		}
	}

	var payment models.Payment
	_ = db.PaymentCollection.FindOne(ctx, bson.M{"_id": order.PaymentID}).Decode(&payment)
	var shipping models.Shipping
	_ = db.ShippingCollection.FindOne(ctx, bson.M{"_id": order.ShippingID}).Decode(&shipping)
	var history models.StatusHistory
	_ = db.StatusHistoryCollection.FindOne(ctx, bson.M{"_id": order.StatusHistoryID}).Decode(&history)

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"order":         order,
		"payment":       payment,
		"shipping":      shipping,
		"statusHistory": history,
	})
}
