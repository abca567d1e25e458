package payement

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/events"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/orders"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

type checkoutInput struct {
	OrderType       string `json:"order_type" binding:"required,oneof=dine_in takeaway delivery"`
	PaymentMethod   string `json:"payment_method" binding:"required,oneof=telebirr chapa card cash"`
	TableNumber     int    `json:"table_number"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

// Checkout transforme le panier Redis en commande. Le montant est
// recalculé côté serveur depuis la carte, jamais repris du client.
// L'en-tête Idempotency-Key protège contre la double soumission.
func Checkout(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input checkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.OrderType == "delivery" && input.DeliveryAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison requise"})
		return
	}
	if input.OrderType == "dine_in" && input.TableNumber <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Numéro de table requis"})
		return
	}

	// Rejoue la réponse précédente si la clé a déjà été consommée
	idemKey := c.GetHeader("Idempotency-Key")
	if idemKey != "" {
		if orderID, ok := cache.GetIdempotentOrder(accountID + ":" + idemKey); ok {
			log.Printf("🔁 Checkout rejoué (clé %s) → commande %s", idemKey, orderID)
			c.JSON(http.StatusOK, gin.H{
				"message":  "Commande déjà créée",
				"order_id": orderID,
				"replayed": true,
			})
			return
		}
	}

	ctx := context.Background()
	cartData, err := database.Redis.Get(ctx, "cart:"+accountID).Result()
	if err != nil || cartData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(cartData), &items); err != nil || len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	// Revalide prix et disponibilité depuis la carte
	for i, it := range items {
		menuItem, err := cache.GetMenuItemFromCache(it.ItemID)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Article retiré de la carte: " + it.Name})
			return
		}
		if !menuItem.Available {
			c.JSON(http.StatusConflict, gin.H{"error": "Article indisponible: " + menuItem.Name})
			return
		}
		items[i].Price = menuItem.Price
		items[i].Name = menuItem.Name
	}

	totals := orders.ComputeTotals(items, input.OrderType == "delivery")
	now := time.Now()

	order := models.Order{
		ID:              gocql.TimeUUID(),
		AccountID:       accountID,
		Status:          orders.StatusPending,
		OrderType:       input.OrderType,
		TableNumber:     input.TableNumber,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
		SubTotal:        totals.SubTotal,
		ServiceFee:      totals.ServiceFee,
		DeliveryFee:     totals.DeliveryFee,
		Tax:             totals.Tax,
		TotalAmount:     totals.Total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Notes:    it.Notes,
		})
	}

	payment := models.Payment{
		ID:        gocql.TimeUUID(),
		OrderID:   order.ID.String(),
		AccountID: accountID,
		Amount:    totals.Total,
		Status:    "pending",
		Method:    input.PaymentMethod,
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.PaymentID = payment.ID.String()

	if err := orders.Insert(&order); err != nil {
		log.Println("❌ Erreur insertion commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}
	if err := insertPayment(&payment); err != nil {
		log.Println("❌ Erreur insertion paiement:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}

	if idemKey != "" {
		cache.StoreIdempotentOrder(accountID+":"+idemKey, order.ID.String())
	}

	// Le panier n'est vidé qu'une fois la commande persistée
	database.Redis.Del(ctx, "cart:"+accountID)
	database.Redis.Publish(ctx, "cart:"+accountID, "cleared")

	events.Publish(events.KindOrderUpdate, order)

	resp := gin.H{
		"message":    "Commande créée",
		"order_id":   order.ID.String(),
		"payment_id": payment.ID.String(),
		"status":     order.Status,
		"totals":     totals,
	}

	// Pour la carte bancaire on renvoie le client_secret Stripe
	if input.PaymentMethod == "card" {
		clientSecret, err := createStripeIntent(&order, c.GetString("phone"))
		if err != nil {
			log.Println("❌ Erreur Stripe:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur initialisation paiement"})
			return
		}
		resp["client_secret"] = clientSecret
	}

	log.Printf("🧾 Commande %s créée (%.2f Br, %s)", order.ID, totals.Total, input.PaymentMethod)
	c.JSON(http.StatusCreated, resp)
}

// createStripeIntent monte un PaymentIntent avec la commande en métadonnées
func createStripeIntent(order *models.Order, phone string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(order.TotalAmount * 100)),
		Currency: stripe.String("etb"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_id":   order.ID.String(),
			"account_id": order.AccountID,
			"phone":      phone,
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}

	log.Printf("💳 PaymentIntent créé : %s (%.2f Br)", intent.ID, order.TotalAmount)
	return intent.ClientSecret, nil
}
