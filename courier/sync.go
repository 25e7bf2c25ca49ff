package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"voltshop/config"
	"voltshop/db"
	"voltshop/models"
	ordersvc "voltshop/orders"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusClient asks one provider for the delivery status of a
// tracking id.
type StatusClient interface {
	DeliveryStatus(ctx context.Context, courier models.Courier, trackingID string) (string, error)
}

// clients maps the provider key stored on the courier record to its
// API client. Steadfast is the only provider implemented; the rest
// fail with a "no courier found" error and are skipped by the sync.
var clients = map[string]StatusClient{
	"steadfast": steadfastClient{},
}

// MapDeliveryStatus translates a provider's status into the internal
// order status. "delivered" completes the order; anything else is
// copied through raw with no order-status change.
func MapDeliveryStatus(external string) (models.OrderStatus, bool) {
	if external == "delivered" {
		return models.OrderStatusCompleted, true
	}
	return "", false
}

// pendingLike are the courier-reported states that still need polling.
var pendingLike = []string{"pending", "in_review", "hold", "in_transit"}

// SyncDeliveryStatuses reconciles courier-reported delivery state into
// order state, one batch per call. Per-item failures are logged and
// skipped; the surviving updates land in a single bulk write.
func SyncDeliveryStatuses(ctx context.Context, batchSize int) error {
	filter := bson.M{
		"status":         models.OrderStatusShipped,
		"deliveryStatus": bson.M{"$in": pendingLike},
		"courierId":      bson.M{"$ne": nil},
		"isDeleted":      false,
	}
	opts := options.Find().SetLimit(int64(batchSize)).SetSort(bson.M{"updatedAt": 1})
	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}

	// One bounded wave of provider calls, batch size = parallelism.
	var wg sync.WaitGroup
	results := make(chan syncResult, len(orders))
	for _, order := range orders {
		wg.Add(1)
		go func(order models.Order) {
			defer wg.Done()

			if order.CourierID == nil {
				log.Printf("courier sync: order %s has no courier assigned", order.OrderID)
				return
			}
			courier, err := FindByID(ctx, *order.CourierID)
			if err != nil {
				log.Printf("courier sync: order %s: %v", order.OrderID, err)
				return
			}
			client, ok := clients[courier.Name]
			if !ok {
				log.Printf("courier sync: order %s: no courier found for provider %q", order.OrderID, courier.Name)
				return
			}
			external, err := client.DeliveryStatus(ctx, courier, order.TrackingID)
			if err != nil {
				log.Printf("courier sync: order %s: %v", order.OrderID, err)
				return
			}
			results <- syncResult{order: order, external: external}
		}(order)
	}
	wg.Wait()
	close(results)

	var collected []syncResult
	for res := range results {
		collected = append(collected, res)
	}

	completions, writes := planSync(collected, time.Now())

	// Delivered orders complete through the order transition so the
	// history append, warranty minting and feed broadcast all happen.
	for _, c := range completions {
		extra := bson.M{"deliveryStatus": c.external}
		if _, err := ordersvc.Transition(ctx, c.order.OrderID, models.OrderStatusCompleted, syncActor, extra); err != nil {
			log.Printf("courier sync: order %s: %v", c.order.OrderID, err)
		}
	}

	if len(writes) == 0 {
		return nil
	}
	if _, err := db.OrderCollection.BulkWrite(ctx, writes); err != nil {
		return err
	}
	log.Printf("courier sync: applied %d delivery status updates, %d completions", len(writes), len(completions))
	return nil
}

// syncActor is recorded as the history author for sync-driven
// transitions.
const syncActor = "courier-sync"

type syncResult struct {
	order    models.Order
	external string
}

// planSync splits courier results in two: orders whose provider status
// completes them, and plain delivery-status updates that go into one
// bulk write.
func planSync(results []syncResult, now time.Time) (completions []syncResult, writes []mongo.WriteModel) {
	for _, res := range results {
		if _, done := MapDeliveryStatus(res.external); done {
			completions = append(completions, res)
			continue
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": res.order.ID}).
			SetUpdate(bson.M{"$set": bson.M{"deliveryStatus": res.external, "updatedAt": now}}))
	}
	return completions, writes
}

// StartSyncLoop runs the reconciliation on a ticker until ctx ends.
func StartSyncLoop(ctx context.Context, cfg config.Config) {
	ticker := time.NewTicker(cfg.CourierSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := SyncDeliveryStatuses(ctx, cfg.CourierSyncBatch); err != nil {
				log.Println("courier sync error:", err)
			}
		}
	}
}

// steadfastClient talks to the Steadfast status-by-tracking endpoint.
type steadfastClient struct{}

func (steadfastClient) DeliveryStatus(ctx context.Context, courier models.Courier, trackingID string) (string, error) {
	url := fmt.Sprintf("%s/status_by_trackingcode/%s", courier.BaseURL, trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Api-Key", courier.APIKey)
	req.Header.Set("Secret-Key", courier.APISecret)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("steadfast returned %d for %s", resp.StatusCode, trackingID)
	}

	var body struct {
		DeliveryStatus string `json:"delivery_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.DeliveryStatus, nil
}
