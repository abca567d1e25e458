package payement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/payments"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const (
	telebirrPollInterval = 3 * time.Second
	telebirrPollDeadline = 2 * time.Minute
)

var telebirrHTTP = &http.Client{Timeout: 15 * time.Second}

type telebirrCreateResponse struct {
	Code     string `json:"code"`
	Msg      string `json:"msg"`
	PrepayID string `json:"prepay_id"`
	PayURL   string `json:"pay_url"`
}

// CreateTelebirrOrder initie une transaction Telebirr (B2B ou C2B)
// pour un paiement en attente et renvoie l'URL de règlement.
func CreateTelebirrOrder(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input struct {
		PaymentID string `json:"payment_id" binding:"required"`
		Channel   string `json:"channel" binding:"required,oneof=b2b c2b"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	paymentID, err := gocql.ParseUUID(input.PaymentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID paiement invalide"})
		return
	}

	p, err := findPayment(paymentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paiement non trouvé"})
		return
	}
	if p.AccountID != accountID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}
	if payments.IsTerminal(p.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Paiement déjà finalisé", "status": p.Status})
		return
	}

	outTradeNo := "mesob-" + uuid.NewString()

	body, _ := json.Marshal(gin.H{
		"appid":        os.Getenv("TELEBIRR_APP_ID"),
		"out_trade_no": outTradeNo,
		"subject":      "Commande Mesob",
		"total_amount": fmt.Sprintf("%.2f", p.Amount),
		"notify_url":   os.Getenv("TELEBIRR_NOTIFY_URL"),
		"trade_type":   input.Channel,
		"timeout":      "30m",
	})

	endpoint := os.Getenv("TELEBIRR_API_URL")
	if endpoint == "" {
		endpoint = "https://app.ethiotelecom.et/ammapi/payment/service-openup/toTradeWebPay"
	}

	req, _ := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, endpoint, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-APP-Key", os.Getenv("TELEBIRR_APP_KEY"))

	resp, err := telebirrHTTP.Do(req)
	if err != nil {
		log.Println("❌ Erreur appel Telebirr:", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Telebirr indisponible"})
		return
	}
	defer resp.Body.Close()

	var tr telebirrCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil || tr.PrepayID == "" {
		log.Println("❌ Réponse Telebirr invalide:", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Réponse Telebirr invalide"})
		return
	}

	// Index out_trade_no → payment_id pour le retour de notification
	order := gin.H{
		"out_trade_no": outTradeNo,
		"prepay_id":    tr.PrepayID,
		"payment_id":   p.ID.String(),
		"channel":      input.Channel,
		"amount":       p.Amount,
	}
	raw, _ := json.Marshal(order)
	database.Redis.Set(context.Background(), "telebirr:"+outTradeNo, raw, 30*time.Minute)

	log.Printf("📲 Telebirr %s initié : %s (%.2f Br)", input.Channel, outTradeNo, p.Amount)

	c.JSON(http.StatusOK, gin.H{
		"out_trade_no": outTradeNo,
		"prepay_id":    tr.PrepayID,
		"pay_url":      tr.PayURL,
	})
}

// WaitForPayment bloque jusqu'à ce que le paiement atteigne un statut
// final, en sondant toutes les 3 secondes avec un plafond de 2 minutes.
// Le délai écoulé renvoie 408, jamais une attente infinie.
func WaitForPayment(c *gin.Context) {
	id := c.Param("id")
	if _, err := gocql.ParseUUID(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID paiement invalide"})
		return
	}

	fetch := func(ctx context.Context, paymentID string) (string, error) {
		if status, ok := cache.GetPaymentStatus(paymentID); ok {
			return status, nil
		}
		uid, _ := gocql.ParseUUID(paymentID)
		p, err := findPayment(uid)
		if err != nil {
			return "", err
		}
		return p.Status, nil
	}

	status, err := payments.WaitForTerminal(c.Request.Context(), id, fetch,
		telebirrPollInterval, telebirrPollDeadline)
	if err != nil {
		if err == payments.ErrDeadline {
			c.JSON(http.StatusRequestTimeout, gin.H{
				"error":  "Paiement toujours en attente",
				"status": payments.StatusPending,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suivi paiement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_id": id,
		"status":     status,
		"paid":       payments.IsSuccessful(status),
	})
}
