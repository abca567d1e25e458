package wsclient

import (
	"context"
	"log"

	"github.com/gorilla/websocket"
)

// OrderSocket : variante minimale scopée sur une seule commande,
// utilisée par l'affichage cuisine. Chaque message reçu déclenche le
// callback tel quel, sans reconnexion.
type OrderSocket struct {
	conn *websocket.Conn
}

func DialOrderSocket(ctx context.Context, url, token, orderID string, onUpdate func(raw []byte)) (*OrderSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url+"/ws/orders?token="+token+"&order_id="+orderID, nil)
	if err != nil {
		return nil, err
	}

	s := &OrderSocket{conn: conn}
	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				log.Printf("🔌 OrderSocket fermé: %v", err)
				return
			}
			onUpdate(raw)
		}
	}()
	return s, nil
}

func (s *OrderSocket) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
