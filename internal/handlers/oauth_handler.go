package handlers

import (
	"context"
	"log"
	"net/http"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

type ctxKey string

const ProviderKey ctxKey = "provider"

// BeginAuth lance le flux OAuth pour la connexion au dashboard
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth termine le flux OAuth. L'e-mail renvoyé par le provider
// doit correspondre à un membre du staff actif : pas de création de
// compte à la volée par ce chemin.
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	user, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var staff models.Staff
	err = session.Query(`
		SELECT id, name, email, role, is_active FROM staff_by_email WHERE email = ?`,
		user.Email).Scan(&staff.ID, &staff.Name, &staff.Email, &staff.Role, &staff.IsActive)
	if err != nil || !staff.IsActive {
		log.Printf("🚫 Connexion OAuth refusée pour %s (pas membre du staff)", user.Email)
		c.JSON(http.StatusForbidden, gin.H{"error": "Aucun compte staff associé à cet e-mail"})
		return
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

	log.Printf("🔐 Connexion %s : %s (%s)", user.Provider, staff.Email, staff.Role)

	c.JSON(http.StatusOK, gin.H{
		"provider":      user.Provider,
		"token":         token,
		"refresh_token": refresh,
		"staff":         staff,
	})
}
