package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mesob_back_end/internal/database"
)

// Kind est l'ensemble fermé des types d'événements temps réel
type Kind string

const (
	KindOrderUpdate       Kind = "order_update"
	KindPaymentUpdate     Kind = "payment_update"
	KindReservationUpdate Kind = "reservation_update"
	KindStaffUpdate       Kind = "staff_update"

	// KindAny est le joker côté client, jamais publié
	KindAny Kind = "*"
)

// Channel est le canal Redis unique sur lequel le hub WebSocket est abonné
const Channel = "events"

// Envelope est le format des frames poussées aux clients WebSocket
type Envelope struct {
	Type      Kind            `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// Publish envoie un événement sur le canal Redis partagé.
// Les erreurs sont loggées, jamais propagées : un événement perdu
// dégrade le temps réel, pas l'opération qui l'a déclenché.
func Publish(kind Kind, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Erreur sérialisation événement %s: %v", kind, err)
		return
	}

	env := Envelope{
		Type:      kind,
		Data:      raw,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(env)
	if err != nil {
		log.Printf("❌ Erreur sérialisation enveloppe %s: %v", kind, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := database.Redis.Publish(ctx, Channel, payload).Err(); err != nil {
		log.Printf("❌ Erreur publication événement %s: %v", kind, err)
	}
}
