package payement

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"mesob_back_end/internal/events"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/orders"
	"mesob_back_end/internal/payments"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

// StripeWebhook reçoit les événements Stripe pour les paiements carte
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Println("❌ JSON invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)
	handleStripeEvent(event)

	c.Status(http.StatusOK)
}

func handleStripeEvent(event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Println("❌ Erreur décodage PaymentIntent:", err)
		return
	}

	orderID := pi.Metadata["order_id"]
	if orderID == "" {
		log.Println("⚠️ PaymentIntent sans order_id en métadonnées")
		return
	}

	var status string
	switch event.Type {
	case "payment_intent.succeeded":
		status = payments.StatusPaid
	case "payment_intent.payment_failed":
		status = payments.StatusFailed
	case "payment_intent.canceled":
		status = payments.StatusCancelled
	default:
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return
	}

	uid, err := gocql.ParseUUID(orderID)
	if err != nil {
		log.Println("❌ order_id invalide dans les métadonnées:", orderID)
		return
	}

	order, err := orders.FindByID(uid)
	if err != nil {
		log.Println("⚠️ Commande Stripe inconnue:", orderID)
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
		log.Printf("🔁 Paiement %s déjà finalisé, événement ignoré", p.ID)
		return
	}

	if err := setPaymentStatus(p, status, pi.ID); err != nil {
		log.Println("❌ Erreur mise à jour paiement Stripe:", err)
		return
	}

	if status != payments.StatusPaid {
		return
	}

	confirmed, err := findAndConfirm(uid)
	if err != nil || confirmed == nil {
		return
	}
	events.Publish(events.KindOrderUpdate, confirmed)

	// Reçu par e-mail, en tâche de fond
	email := pi.Metadata["email"]
	if email == "" {
		return
	}
	go func(order models.Order, email string) {
		html := utils.GenerateOrderConfirmationHTML(order)

		pdf, err := utils.GenerateReceiptPDF(order)
		if err != nil {
			log.Println("❌ Erreur génération reçu PDF :", err)
			pdf = nil
		}

		if err := utils.SendConfirmationEmail(email, "Confirmation de votre commande Mesob", html, pdf); err != nil {
			log.Println("❌ Erreur envoi e-mail confirmation :", err)
		} else {
			log.Println("📧 E-mail de confirmation envoyé à", email)
		}
	}(*confirmed, email)
}
