package wsclient

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"mesob_back_end/internal/events"

	"github.com/gorilla/websocket"
)

// Client WebSocket avec reconnexion bornée et dispatch typé.
// Construit explicitement par l'appelant, pas d'instance globale.
type Handler func(env events.Envelope)

const (
	reconnectDelay       = 3 * time.Second
	maxReconnectAttempts = 5
)

type registration struct {
	id int
	fn Handler
}

type Client struct {
	url   string
	token string

	mu         sync.Mutex
	conn       *websocket.Conn
	connecting bool
	closed     bool
	attempts   int
	nextID     int
	handlers   map[events.Kind][]registration
}

func New(url, token string) *Client {
	return &Client{
		url:      url,
		token:    token,
		handlers: make(map[events.Kind][]registration),
	}
}

// Connect ouvre la connexion ; no-op si déjà ouverte ou en cours
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil || c.connecting || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.connecting = true
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url+"/ws?token="+c.token, nil)

	c.mu.Lock()
	c.connecting = false
	if err != nil {
		c.mu.Unlock()
		log.Printf("❌ WebSocket : connexion échouée: %v", err)
		c.scheduleReconnect(ctx)
		return err
	}
	c.conn = conn
	c.attempts = 0
	c.mu.Unlock()

	log.Println("✅ WebSocket connecté")
	go c.readLoop(ctx, conn)
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			closed := c.closed
			c.mu.Unlock()

			if !closed {
				log.Printf("🔌 WebSocket déconnecté: %v", err)
				c.scheduleReconnect(ctx)
			}
			return
		}

		var env events.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			// Frame illisible : on logge et on continue, jamais de propagation
			log.Printf("⚠️ WebSocket : frame illisible ignorée: %v", err)
			continue
		}
		c.dispatch(env)
	}
}

// scheduleReconnect retente après un délai fixe, avec un plafond de
// tentatives. Au-delà, on abandonne silencieusement : le pire cas est
// un affichage qui ne se rafraîchit plus, pas un crash.
func (c *Client) scheduleReconnect(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.attempts >= maxReconnectAttempts {
		if c.attempts >= maxReconnectAttempts {
			log.Println("❌ WebSocket : plafond de reconnexions atteint, abandon")
		}
		c.mu.Unlock()
		return
	}
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	log.Printf("🔁 WebSocket : reconnexion dans %s (tentative %d/%d)", reconnectDelay, attempt, maxReconnectAttempts)

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(reconnectDelay):
			c.Connect(ctx)
		}
	}()
}

// dispatch appelle les handlers du type reçu dans leur ordre
// d'enregistrement, puis les handlers joker avec la frame complète
func (c *Client) dispatch(env events.Envelope) {
	c.mu.Lock()
	typed := append([]registration(nil), c.handlers[env.Type]...)
	wildcard := append([]registration(nil), c.handlers[events.KindAny]...)
	c.mu.Unlock()

	for _, reg := range typed {
		reg.fn(env)
	}
	for _, reg := range wildcard {
		reg.fn(env)
	}
}

// On enregistre un handler et renvoie sa fonction de désinscription
func (c *Client) On(kind events.Kind, fn Handler) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[kind] = append(c.handlers[kind], registration{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		regs := c.handlers[kind]
		for i, reg := range regs {
			if reg.id == id {
				c.handlers[kind] = append(regs[:i], regs[i+1:]...)
				return
			}
		}
	}
}

// Send est un no-op avec avertissement si la connexion n'est pas ouverte
func (c *Client) Send(kind events.Kind, data interface{}) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		log.Println("⚠️ WebSocket : envoi impossible, non connecté")
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ WebSocket : sérialisation envoi: %v", err)
		return
	}
	env := events.Envelope{
		Type:      kind,
		Data:      raw,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := conn.WriteJSON(env); err != nil {
		log.Printf("❌ WebSocket : erreur envoi: %v", err)
	}
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close coupe la connexion et vide les handlers, sans reconnexion
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.handlers = make(map[events.Kind][]registration)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}
