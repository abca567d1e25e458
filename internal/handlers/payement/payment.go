package payement

import (
	"errors"
	"log"
	"net/http"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/events"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/payments"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

func insertPayment(p *models.Payment) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	if err := session.Query(`
		INSERT INTO payments (id, order_id, account_id, amount, tip_amount,
			refunded_amount, status, method, transaction_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrderID, p.AccountID, p.Amount, p.TipAmount, p.RefundedAmount,
		p.Status, p.Method, p.TransactionID, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		return err
	}

	cache.SetPaymentStatus(p.ID.String(), p.Status)
	return nil
}

func findPayment(paymentID gocql.UUID) (*models.Payment, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var p models.Payment
	err = session.Query(`
		SELECT id, order_id, account_id, amount, tip_amount, refunded_amount,
		       status, method, transaction_id, created_at, updated_at
		FROM payments WHERE id = ?`, paymentID).Scan(
		&p.ID, &p.OrderID, &p.AccountID, &p.Amount, &p.TipAmount, &p.RefundedAmount,
		&p.Status, &p.Method, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, errors.New("paiement introuvable")
		}
		return nil, err
	}
	return &p, nil
}

func setPaymentStatus(p *models.Payment, status, transactionID string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	if transactionID == "" {
		transactionID = p.TransactionID
	}
	if err := session.Query(`
		UPDATE payments SET status = ?, transaction_id = ?, updated_at = ? WHERE id = ?`,
		status, transactionID, now, p.ID).Exec(); err != nil {
		return err
	}

	p.Status = status
	p.TransactionID = transactionID
	p.UpdatedAt = now

	cache.SetPaymentStatus(p.ID.String(), status)
	events.Publish(events.KindPaymentUpdate, p)
	return nil
}

// GetPayment récupère un paiement. Un client ne voit que les siens,
// le staff voit tout.
func GetPayment(c *gin.Context) {
	paymentID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID paiement invalide"})
		return
	}

	p, err := findPayment(paymentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paiement non trouvé"})
		return
	}

	role := c.GetString("role")
	if role == "customer" && p.AccountID != c.GetString("account_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetPaymentStatus lit le statut depuis le cache Redis, avec repli ScyllaDB.
// C'est l'endpoint sondé par l'app pendant un paiement Telebirr.
func GetPaymentStatus(c *gin.Context) {
	id := c.Param("id")

	if status, ok := cache.GetPaymentStatus(id); ok {
		c.JSON(http.StatusOK, gin.H{"payment_id": id, "status": status})
		return
	}

	paymentID, err := gocql.ParseUUID(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID paiement invalide"})
		return
	}

	p, err := findPayment(paymentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paiement non trouvé"})
		return
	}

	cache.SetPaymentStatus(id, p.Status)
	c.JSON(http.StatusOK, gin.H{"payment_id": id, "status": p.Status})
}

// MarkPaid confirme un encaissement manuel (espèces au comptoir)
func MarkPaid(c *gin.Context) {
	paymentID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID paiement invalide"})
		return
	}

	p, err := findPayment(paymentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paiement non trouvé"})
		return
	}
	if payments.IsTerminal(p.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Paiement déjà finalisé", "status": p.Status})
		return
	}

	if err := setPaymentStatus(p, payments.StatusPaid, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour paiement"})
		return
	}

	utils.LogStaffAction(c, "mark_paid", "payment", p.ID.String(), gin.H{"amount": p.Amount})
	log.Printf("✅ Paiement %s encaissé (%.2f Br)", p.ID, p.Amount)

	c.JSON(http.StatusOK, gin.H{"message": "Paiement confirmé", "payment": p})
}

// AddTip ajoute un pourboire à un paiement déjà réglé
func AddTip(c *gin.Context) {
	paymentID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID paiement invalide"})
		return
	}

	var input struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant invalide"})
		return
	}

	p, err := findPayment(paymentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paiement non trouvé"})
		return
	}
	if !payments.IsSuccessful(p.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Le paiement n'est pas encore réglé"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	newTip := p.TipAmount + input.Amount
	if err := session.Query(`UPDATE payments SET tip_amount = ?, updated_at = ? WHERE id = ?`,
		newTip, time.Now(), p.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement pourboire"})
		return
	}

	p.TipAmount = newTip
	c.JSON(http.StatusOK, gin.H{"message": "Pourboire ajouté", "payment": p})
}

// Refund rembourse tout ou partie d'un paiement réglé
func Refund(c *gin.Context) {
	paymentID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID paiement invalide"})
		return
	}

	var input struct {
		Amount float64 `json:"amount"` // 0 = remboursement total
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	p, err := findPayment(paymentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paiement non trouvé"})
		return
	}
	if !payments.IsSuccessful(p.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Seul un paiement réglé peut être remboursé"})
		return
	}

	amount := input.Amount
	if amount <= 0 {
		amount = p.Amount + p.TipAmount - p.RefundedAmount
	}
	if amount > p.Amount+p.TipAmount-p.RefundedAmount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant supérieur au solde remboursable"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	newRefunded := p.RefundedAmount + amount
	status := p.Status
	if newRefunded >= p.Amount+p.TipAmount {
		status = payments.StatusRefunded
	}

	if err := session.Query(`
		UPDATE payments SET refunded_amount = ?, status = ?, updated_at = ? WHERE id = ?`,
		newRefunded, status, time.Now(), p.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur remboursement"})
		return
	}

	p.RefundedAmount = newRefunded
	p.Status = status
	cache.SetPaymentStatus(p.ID.String(), status)
	events.Publish(events.KindPaymentUpdate, p)

	utils.LogStaffAction(c, "refund", "payment", p.ID.String(), gin.H{
		"amount": amount,
		"reason": input.Reason,
	})
	log.Printf("💸 Remboursement %.2f Br sur paiement %s", amount, p.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Remboursement effectué", "payment": p})
}
