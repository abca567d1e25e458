package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"mesob_back_end/internal/database"
	"mesob_back_end/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

const (
	sendBuffer   = 16
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	orderID string // non vide = connexion scopée sur une commande
}

// Hub relaie les événements du canal Redis vers les connexions
// WebSocket. Un seul abonnement Redis pour tout le process ; chaque
// client a son buffer d'envoi, un client trop lent est déconnecté
// plutôt que de bloquer les autres.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// Run s'abonne au canal Redis et fan-out jusqu'à annulation du contexte
func (h *Hub) Run(ctx context.Context) {
	pubsub := database.Redis.Subscribe(ctx, events.Channel)
	defer pubsub.Close()

	log.Println("✅ Hub WebSocket abonné au canal", events.Channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(payload []byte) {
	var env events.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Printf("⚠️ Hub : enveloppe illisible ignorée: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if c.orderID != "" && !matchesOrder(env, c.orderID) {
			continue
		}
		select {
		case c.send <- payload:
		default:
			// Buffer plein : client trop lent, on le coupe
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// matchesOrder regarde si la donnée de l'événement porte l'id de
// commande attendu (champ "id" ou "order_id")
func matchesOrder(env events.Envelope, orderID string) bool {
	var data struct {
		ID      string `json:"id"`
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return false
	}
	return data.ID == orderID || data.OrderID == orderID
}

// ServeWS gère GET /ws : flux complet des événements
func (h *Hub) ServeWS(c *gin.Context) {
	h.serve(c, "")
}

// ServeOrderWS gère GET /ws/orders?order_id= : flux filtré
func (h *Hub) ServeOrderWS(c *gin.Context) {
	orderID := c.Query("order_id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id requis"})
		return
	}
	h.serve(c, orderID)
}

func (h *Hub) serve(c *gin.Context, orderID string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}

	cl := &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		orderID: orderID,
	}

	h.mu.Lock()
	h.clients[cl] = true
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("🔗 Client WebSocket connecté (%d actifs)", count)

	go h.writeLoop(cl)
	h.readLoop(cl)
}

// writeLoop pousse les événements et les pings vers le client
func (h *Hub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cl.conn.Close()

	for {
		select {
		case payload, ok := <-cl.send:
			if !ok {
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop ne sert qu'à détecter la fermeture côté client
func (h *Hub) readLoop(cl *client) {
	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[cl]; ok {
			delete(h.clients, cl)
			close(cl.send)
		}
		h.mu.Unlock()
		cl.conn.Close()
	}()

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
