package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/inventory"
	"voltshop/middleware"
	"voltshop/models"
	"voltshop/utils"
	"voltshop/warranty"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// activeStatus reports whether a status holds stock. Canceled and
// deleted orders have released their units back to inventory.
func activeStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusCanceled, models.OrderStatusDeleted:
		return false
	}
	return true
}

// StockEffect plans the inventory side of a status transition:
// +1 means release the order's units back to stock, -1 means take them
// again, 0 means no inventory movement. Cancel followed by retrieve is
// a round trip: one release, one take, never a double move.
func StockEffect(from, to models.OrderStatus) int {
	switch {
	case activeStatus(from) && !activeStatus(to):
		return +1
	case !activeStatus(from) && activeStatus(to):
		return -1
	default:
		return 0
	}
}

var allowedStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusCompleted:  true,
	models.OrderStatusCanceled:   true,
	models.OrderStatusDeleted:    true,
}

// statusSet builds the status $set document. Deletion hides the order
// from listings; every other target restores its visibility, so a
// retrieved order shows up again.
func statusSet(to models.OrderStatus, now time.Time) bson.M {
	return bson.M{
		"status":    to,
		"updatedAt": now,
		"isDeleted": to == models.OrderStatusDeleted,
	}
}

// Transition moves an order to a new status with every side effect the
// change implies, in one transaction: stock reversal, the visibility
// flag, the history append and warranty minting on completion. extra
// is merged into the $set document. The admin status feed is notified
// after commit.
func Transition(ctx context.Context, orderID string, to models.OrderStatus, updatedBy string, extra bson.M) (models.Order, error) {
	if !allowedStatuses[to] {
		return models.Order{}, apperr.BadRequest("Invalid status")
	}

	var updated models.Order
	err := db.WithTxn(ctx, func(sc mongo.SessionContext) error {
		var order models.Order
		if err := db.OrderCollection.FindOne(sc, bson.M{"orderId": orderID}).Decode(&order); err != nil {
			return apperr.NotFound("Order not found")
		}
		if order.Status == to {
			return apperr.BadRequest("Order is already in that status")
		}

		switch StockEffect(order.Status, to) {
		case +1:
			if err := inventory.ReverseForOrder(sc, order, false); err != nil {
				return err
			}
		case -1:
			if err := inventory.ReverseForOrder(sc, order, true); err != nil {
				return err
			}
		}

		set := statusSet(to, time.Now())
		for k, v := range extra {
			set[k] = v
		}
		if _, err := db.OrderCollection.UpdateOne(sc, bson.M{"_id": order.ID}, bson.M{"$set": set}); err != nil {
			return err
		}

		entry := models.StatusHistoryEntry{
			Status:    to,
			UpdatedBy: updatedBy,
			At:        time.Now(),
		}
		if _, err := db.StatusHistoryCollection.UpdateOne(sc,
			bson.M{"_id": order.StatusHistoryID},
			bson.M{"$push": bson.M{"history": entry}},
		); err != nil {
			return err
		}

		// Completion mints the warranty tokens for warrantied units.
		if to == models.OrderStatusCompleted {
			if err := warranty.MintForOrder(sc, order); err != nil {
				return err
			}
		}

		updated = order
		updated.Status = to
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	BroadcastStatus(updated.OrderID, updated.Status)
	return updated, nil
}

// UpdateStatus handles PATCH /api/orders/:orderid/status. The status
// write, history append and any stock reversal share one transaction.
func (s *Service) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")
	updatedBy := middleware.UserID(r.Context())

	var input struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || !allowedStatuses[input.Status] {
		utils.RespondWithError(w, apperr.BadRequest("Invalid status"))
		return
	}

	updated, err := Transition(ctx, orderID, input.Status, updatedBy, nil)
	if err != nil {
		log.Println("UpdateStatus error:", err)
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"orderId": updated.OrderID,
		"status":  updated.Status,
	})
}
