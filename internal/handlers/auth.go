package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// RequestOTP génère un code à 6 chiffres et l'envoie par SMS.
// Le code vit 5 minutes dans Redis et ne sert qu'une fois.
func RequestOTP(c *gin.Context) {
	var input struct {
		PhoneNumber string `json:"phone_number" binding:"required,e164"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Numéro de téléphone invalide"})
		return
	}

	code, err := cache.GenerateOTP(input.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération code"})
		return
	}

	// Sans passerelle SMS configurée, le code part dans les logs (dev)
	if os.Getenv("SMS_GATEWAY_URL") == "" {
		log.Printf("📱 OTP pour %s : %s (passerelle SMS non configurée)", input.PhoneNumber, code)
	} else {
		go sendOTPSMS(input.PhoneNumber, code)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code envoyé", "expires_in": 300})
}

// VerifyOTP échange un code valide contre une paire de tokens.
// Le compte est créé à la volée au premier passage.
func VerifyOTP(c *gin.Context) {
	var input struct {
		PhoneNumber string `json:"phone_number" binding:"required,e164"`
		Code        string `json:"code" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if !cache.VerifyOTP(input.PhoneNumber, input.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code invalide ou expiré"})
		return
	}

	account, err := findOrCreateAccount(input.PhoneNumber)
	if err != nil {
		log.Println("❌ Erreur compte:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	token, err := utils.GenerateJWT(account.ID, account.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	refresh, err := utils.GenerateRefreshToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	cache.StoreRefreshToken(account.ID, refresh, utils.RefreshTokenTTL)

	c.JSON(http.StatusOK, gin.H{
		"message":       "Connexion réussie",
		"token":         token,
		"refresh_token": refresh,
		"account":       account,
	})
}

func findOrCreateAccount(phone string) (*models.Account, error) {
	session, err := database.GetAccountsSession()
	if err != nil {
		return nil, err
	}

	var account models.Account
	err = session.Query(`
		SELECT id, phone_number, name, email, balance, loyalty_points, created_at, updated_at
		FROM accounts_by_phone WHERE phone_number = ?`, phone).Scan(
		&account.ID, &account.PhoneNumber, &account.Name, &account.Email,
		&account.Balance, &account.LoyaltyPoints, &account.CreatedAt, &account.UpdatedAt)
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gocql.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	account = models.Account{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := session.Query(`
		INSERT INTO accounts (id, phone_number, name, email, balance, loyalty_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, 0, ?, ?)`,
		account.ID, account.PhoneNumber, account.Name, account.Email,
		account.CreatedAt, account.UpdatedAt).Exec(); err != nil {
		return nil, err
	}
	if err := session.Query(`
		INSERT INTO accounts_by_phone (phone_number, id, name, email, balance, loyalty_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, 0, ?, ?)`,
		account.PhoneNumber, account.ID, account.Name, account.Email,
		account.CreatedAt, account.UpdatedAt).Exec(); err != nil {
		return nil, err
	}

	log.Printf("👤 Nouveau compte créé pour %s", phone)
	return &account, nil
}

// StaffSignin : connexion e-mail / mot de passe pour le staff
func StaffSignin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-mail et mot de passe requis"})
		return
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var staff models.Staff
	err = session.Query(`
		SELECT id, name, email, phone, role, password, is_active, created_at, updated_at
		FROM staff_by_email WHERE email = ?`, input.Email).Scan(
		&staff.ID, &staff.Name, &staff.Email, &staff.Phone, &staff.Role,
		&staff.Password, &staff.IsActive, &staff.CreatedAt, &staff.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants incorrects"})
		return
	}

	if !staff.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Compte désactivé"})
		return
	}

	// Cache du hash vérifié pour éviter argon2 à chaque requête
	if !cache.GetPasswordHashFromCache(input.Email, input.Password) {
		ok, err := utils.VerifyPassword(input.Password, staff.Password)
		if err != nil || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants incorrects"})
			return
		}
		cache.SetPasswordHashInCache(input.Email, input.Password)
	}

	token, err := utils.GenerateStaffJWT(staff.ID.String(), staff.Email, staff.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	refresh, err := utils.GenerateRefreshToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	cache.StoreRefreshToken(staff.ID.String(), refresh, utils.RefreshTokenTTL)

	log.Printf("🔐 Connexion staff : %s (%s)", staff.Email, staff.Role)

	c.JSON(http.StatusOK, gin.H{
		"message":       "Connexion réussie",
		"token":         token,
		"refresh_token": refresh,
		"staff":         staff,
	})
}

// RefreshToken échange un refresh token valide contre un nouveau JWT
func RefreshToken(c *gin.Context) {
	var input struct {
		AccountID    string `json:"account_id" binding:"required"`
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	stored, err := cache.GetRefreshToken(input.AccountID)
	if err != nil || stored != input.RefreshToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token invalide ou expiré"})
		return
	}

	account, err := cache.GetAccountFromCache(input.AccountID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Compte introuvable"})
		return
	}

	token, err := utils.GenerateJWT(account.ID, account.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	// Rotation : l'ancien refresh token est invalidé
	refresh, err := utils.GenerateRefreshToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	cache.StoreRefreshToken(account.ID, refresh, utils.RefreshTokenTTL)

	c.JSON(http.StatusOK, gin.H{"token": token, "refresh_token": refresh})
}

// Logout révoque le refresh token du compte connecté
func Logout(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	cache.DeleteRefreshToken(accountID)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

// sendOTPSMS pousse le code vers la passerelle SMS configurée
func sendOTPSMS(phone, code string) {
	gateway := os.Getenv("SMS_GATEWAY_URL")
	resp, err := http.PostForm(gateway, map[string][]string{
		"to":      {phone},
		"message": {"Votre code Mesob : " + code},
	})
	if err != nil {
		log.Println("⚠️ Envoi SMS échoué:", err)
		return
	}
	resp.Body.Close()
}
