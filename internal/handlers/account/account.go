package account

import (
	"log"
	"net/http"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// Points gagnés : 1 point par tranche de 10 birrs dépensés
const loyaltyRate = 10.0

// GetMyAccount renvoie le profil du compte connecté
func GetMyAccount(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	account, err := cache.GetAccountFromCache(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Compte introuvable"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// UpdateMyAccount modifie nom et e-mail du profil
func UpdateMyAccount(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	account, err := cache.GetAccountFromCache(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Compte introuvable"})
		return
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if input.Name != "" {
		account.Name = input.Name
	}
	if input.Email != "" {
		account.Email = input.Email
	}
	account.UpdatedAt = time.Now()

	if err := session.Query(`
		UPDATE accounts SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		account.Name, account.Email, account.UpdatedAt, account.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}
	session.Query(`
		UPDATE accounts_by_phone SET name = ?, email = ?, updated_at = ? WHERE phone_number = ?`,
		account.Name, account.Email, account.UpdatedAt, account.PhoneNumber).Exec()

	cache.InvalidateAccountCache(account.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Profil mis à jour", "account": account})
}

// GetLoyaltyHistory renvoie le solde et l'historique des points
func GetLoyaltyHistory(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	account, err := cache.GetAccountFromCache(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Compte introuvable"})
		return
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`
		SELECT account_id, order_id, points, reason, created_at
		FROM loyalty_history WHERE account_id = ? LIMIT 100`, accountID).Iter()

	history := []models.LoyaltyEntry{}
	var e models.LoyaltyEntry
	for iter.Scan(&e.AccountID, &e.OrderID, &e.Points, &e.Reason, &e.CreatedAt) {
		history = append(history, e)
		e = models.LoyaltyEntry{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération historique"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance": account.LoyaltyPoints,
		"history": history,
	})
}

// EarnLoyaltyPoints crédite les points d'une commande réglée
func EarnLoyaltyPoints(accountID, orderID string, amount float64) error {
	points := int(amount / loyaltyRate)
	if points <= 0 || accountID == "" {
		return nil
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		return err
	}

	account, err := cache.GetAccountFromCache(accountID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := session.Query(`
		UPDATE accounts SET loyalty_points = ?, updated_at = ? WHERE id = ?`,
		account.LoyaltyPoints+points, now, accountID).Exec(); err != nil {
		return err
	}

	if err := session.Query(`
		INSERT INTO loyalty_history (account_id, order_id, points, reason, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		accountID, orderID, points, "order_paid", now).Exec(); err != nil {
		return err
	}

	cache.InvalidateAccountCache(accountID)
	return nil
}

// RedeemLoyaltyPoints débite des points du solde du client
func RedeemLoyaltyPoints(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input struct {
		Points int `json:"points" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre de points invalide"})
		return
	}

	account, err := cache.GetAccountFromCache(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Compte introuvable"})
		return
	}
	if account.LoyaltyPoints < input.Points {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Solde de points insuffisant",
			"balance": account.LoyaltyPoints,
		})
		return
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	now := time.Now()
	newBalance := account.LoyaltyPoints - input.Points
	if err := session.Query(`
		UPDATE accounts SET loyalty_points = ?, updated_at = ? WHERE id = ?`,
		newBalance, now, accountID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour du solde"})
		return
	}

	if err := session.Query(`
		INSERT INTO loyalty_history (account_id, order_id, points, reason, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		accountID, "", -input.Points, "redeemed", now).Exec(); err != nil {
		log.Printf("⚠️ Historique fidélité non enregistré pour %s: %v", accountID, err)
	}

	cache.InvalidateAccountCache(accountID)
	log.Printf("✅ %d points utilisés par le compte %s", input.Points, accountID)

	c.JSON(http.StatusOK, gin.H{
		"redeemed": input.Points,
		"balance":  newBalance,
	})
}
