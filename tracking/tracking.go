package tracking

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"voltshop/config"
	"voltshop/models"
	"voltshop/rdx"
)

// PurchaseEvent is the conversion-tracking payload published to the
// external collaborator's channel. Emission is best-effort: failures
// are logged and never reach the checkout caller.
type PurchaseEvent struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Total     float64   `json:"total"`
	Currency  string    `json:"currency"`
	Channel   string    `json:"channel"`
	SourceURL string    `json:"sourceUrl,omitempty"`
	OrderURL  string    `json:"orderUrl"`
	At        time.Time `json:"at"`
}

const channel = "purchase-events"

// EmitPurchase publishes the conversion event for a committed order.
func EmitPurchase(cfg config.Config, order models.Order) {
	event := PurchaseEvent{
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		SessionID: order.SessionID,
		Total:     order.Total,
		Currency:  "BDT",
		Channel:   string(order.OrderSource.Channel),
		SourceURL: order.OrderSource.URL,
		OrderURL:  cfg.PublicBaseURL + "/api/orders/" + order.OrderID,
		At:        time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[EmitPurchase] marshal error for %s: %v", order.OrderID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdx.Publish(ctx, channel, data); err != nil {
		log.Printf("[EmitPurchase] publish error for %s: %v", order.OrderID, err)
	}
}
