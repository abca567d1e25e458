package handlers

import (
	"net/http"

	"mesob_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

// SubscribeNewsletter inscrit une adresse aux annonces du restaurant.
// Les adresses vivent dans un set Redis, les doublons sont silencieux.
func SubscribeNewsletter(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse e-mail invalide"})
		return
	}

	added, err := cache.AddNewsletterEmail(input.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement"})
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{"message": "Adresse déjà inscrite"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Inscription enregistrée"})
}
