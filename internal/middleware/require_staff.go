package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireStaff vérifie que l'appelant a l'un des rôles staff fournis.
// Sans argument, n'importe quel rôle staff passe.
func RequireStaff(roles ...string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" || role == "customer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé au personnel"})
			c.Abort()
			return
		}
		if len(allowed) > 0 && !allowed[role] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Rôle insuffisant pour cette opération"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireManager : raccourci pour les opérations réservées au manager
func RequireManager(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != "manager" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé au manager"})
		c.Abort()
		return
	}
	c.Next()
}
