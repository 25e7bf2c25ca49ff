package orders

import (
	"log"
	"net/http"
	"sync"

	"voltshop/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// feed fans order-status changes out to the connected admin dashboards.
var feed = struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}{conns: make(map[*websocket.Conn]bool)}

type statusUpdate struct {
	Type    string             `json:"type"`
	OrderID string             `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
}

// BroadcastStatus pushes a status change to every subscriber. Slow or
// dead connections are dropped, never waited on.
func BroadcastStatus(orderID string, status models.OrderStatus) {
	update := statusUpdate{Type: "order_status", OrderID: orderID, Status: status}

	feed.mu.Lock()
	defer feed.mu.Unlock()
	for conn := range feed.conns {
		if err := conn.WriteJSON(update); err != nil {
			log.Println("StatusFeed write error, dropping subscriber:", err)
			conn.Close()
			delete(feed.conns, conn)
		}
	}
}

// StatusFeed handles GET /api/orders/feed — a websocket stream of
// status changes for the admin dashboard.
func (s *Service) StatusFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("StatusFeed upgrade error:", err)
		return
	}

	feed.mu.Lock()
	feed.conns[conn] = true
	feed.mu.Unlock()

	// Reader loop exists only to notice the peer going away.
	go func() {
		defer func() {
			feed.mu.Lock()
			delete(feed.conns, conn)
			feed.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
