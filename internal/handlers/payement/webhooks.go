package payement

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"mesob_back_end/internal/apiclient"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/events"
	"mesob_back_end/internal/payments"
	"mesob_back_end/internal/webhooks"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// WebhookHandlers regroupe les récepteurs Chapa et Telebirr.
// Les vérificateurs et le client de relais sont injectés au démarrage.
type WebhookHandlers struct {
	chapa    *webhooks.Verifier
	telebirr *webhooks.Verifier
	forward  *apiclient.Client
}

// NewWebhookHandlers résout les secrets une fois au démarrage : un
// secret absent désactive explicitement la vérification du fournisseur.
func NewWebhookHandlers() *WebhookHandlers {
	h := &WebhookHandlers{
		chapa: webhooks.NewVerifier("chapa", os.Getenv("CHAPA_WEBHOOK_SECRET"),
			"chapa-signature", "x-chapa-signature", "x-signature"),
		telebirr: webhooks.NewVerifier("telebirr", os.Getenv("TELEBIRR_WEBHOOK_SECRET"),
			"x-telebirr-signature", "x-signature"),
	}

	if target := os.Getenv("BACKEND_WEBHOOK_FORWARD_URL"); target != "" {
		h.forward = apiclient.New(target, os.Getenv("BACKEND_ADMIN_TOKEN"))
	}
	return h
}

type chapaPayload struct {
	Event     string  `json:"event"`
	TxRef     string  `json:"tx_ref"`
	RefID     string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount,string"`
	PaymentID string  `json:"meta_payment_id"`
}

// ChapaWebhook reçoit les notifications Chapa. La signature HMAC est
// contrôlée sur le corps brut ; une fois acceptée la notification est
// traitée puis relayée, et la réponse est toujours 200 {ok:true} pour
// éviter les tempêtes de retry côté fournisseur.
func (h *WebhookHandlers) ChapaWebhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	if err := h.chapa.Check(h.chapa.Signature(c.Request), rawBody); err != nil {
		log.Println("🚫 Webhook Chapa rejeté:", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Signature invalide"})
		return
	}

	var payload chapaPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		log.Println("⚠️ Payload Chapa illisible:", err)
	} else {
		h.applyChapa(payload)
	}

	h.relay(c.Request.Context(), "/api/webhook/chapa", rawBody)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *WebhookHandlers) applyChapa(payload chapaPayload) {
	log.Printf("📥 Webhook Chapa : %s (tx_ref=%s, statut=%s)",
		payload.Event, payload.TxRef, payload.Status)

	paymentID, err := gocql.ParseUUID(payload.PaymentID)
	if err != nil {
		// tx_ref porte l'ID de paiement quand les métadonnées manquent
		paymentID, err = gocql.ParseUUID(payload.TxRef)
		if err != nil {
			log.Println("⚠️ Webhook Chapa sans référence paiement exploitable")
			return
		}
	}

	p, err := findPayment(paymentID)
	if err != nil {
		log.Println("⚠️ Paiement Chapa inconnu:", paymentID)
		return
	}
	if payments.IsTerminal(p.Status) {
		log.Printf("🔁 Paiement %s déjà finalisé, notification ignorée", p.ID)
		return
	}

	status := payments.StatusFailed
	if payload.Status == "success" {
		status = payments.StatusPaid
	}

	if err := setPaymentStatus(p, status, payload.RefID); err != nil {
		log.Println("❌ Erreur mise à jour paiement Chapa:", err)
		return
	}
	confirmOrderIfPaid(p.OrderID, status)
}

type telebirrPayload struct {
	OutTradeNo  string `json:"out_trade_no"`
	TradeNo     string `json:"trade_no"`
	TradeStatus string `json:"trade_status"`
}

// TelebirrWebhook reçoit les notifications de paiement Telebirr
func (h *WebhookHandlers) TelebirrWebhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	if err := h.telebirr.Check(h.telebirr.Signature(c.Request), rawBody); err != nil {
		log.Println("🚫 Webhook Telebirr rejeté:", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Signature invalide"})
		return
	}

	var payload telebirrPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		log.Println("⚠️ Payload Telebirr illisible:", err)
	} else {
		h.applyTelebirr(c.Request.Context(), payload)
	}

	h.relay(c.Request.Context(), "/api/webhook/telebirr", rawBody)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *WebhookHandlers) applyTelebirr(ctx context.Context, payload telebirrPayload) {
	log.Printf("📥 Webhook Telebirr : %s (statut=%s)", payload.OutTradeNo, payload.TradeStatus)

	data, err := database.Redis.Get(ctx, "telebirr:"+payload.OutTradeNo).Result()
	if err != nil {
		log.Println("⚠️ Transaction Telebirr inconnue:", payload.OutTradeNo)
		return
	}

	var order struct {
		PaymentID string `json:"payment_id"`
	}
	if err := json.Unmarshal([]byte(data), &order); err != nil {
		return
	}

	paymentID, err := gocql.ParseUUID(order.PaymentID)
	if err != nil {
		return
	}

	p, err := findPayment(paymentID)
	if err != nil {
		return
	}
	if payments.IsTerminal(p.Status) {
		log.Printf("🔁 Paiement %s déjà finalisé, notification ignorée", p.ID)
		return
	}

	status := payments.StatusFailed
	if payload.TradeStatus == "TRADE_SUCCESS" || payload.TradeStatus == "Completed" {
		status = payments.StatusPaid
	}

	if err := setPaymentStatus(p, status, payload.TradeNo); err != nil {
		log.Println("❌ Erreur mise à jour paiement Telebirr:", err)
		return
	}
	confirmOrderIfPaid(p.OrderID, status)
}

// relay pousse la notification brute vers le backend d'administration.
// Meilleur effort : un relais en échec n'affecte jamais la réponse.
func (h *WebhookHandlers) relay(ctx context.Context, path string, rawBody []byte) {
	if h.forward == nil {
		return
	}

	relayCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	go func() {
		defer cancel()
		if err := h.forward.Post(relayCtx, path, json.RawMessage(rawBody), nil); err != nil {
			log.Println("⚠️ Relais webhook échoué:", err)
		}
	}()
}

// confirmOrderIfPaid passe la commande en "confirmed" quand le
// paiement est réglé, et publie l'événement pour la cuisine.
func confirmOrderIfPaid(orderID, paymentStatus string) {
	if !payments.IsSuccessful(paymentStatus) || orderID == "" {
		return
	}

	uid, err := gocql.ParseUUID(orderID)
	if err != nil {
		return
	}

	order, err := findAndConfirm(uid)
	if err != nil {
		log.Println("⚠️ Confirmation commande après paiement impossible:", err)
		return
	}
	if order != nil {
		events.Publish(events.KindOrderUpdate, order)
	}
}
