package utils

import (
	"encoding/json"
	"log"
	"time"

	"mesob_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// LogStaffAction enregistre une action staff dans les logs d'audit
// (asynchrone, une écriture perdue ne bloque jamais la requête)
func LogStaffAction(c *gin.Context, action, resource, resourceID string, details interface{}) {
	staffID := c.GetString("account_id")
	role := c.GetString("role")
	ip := c.ClientIP()

	go func() {
		session, err := database.GetAccountsSession()
		if err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
			return
		}

		var detailsStr string
		if details != nil {
			if raw, err := json.Marshal(details); err == nil {
				detailsStr = string(raw)
			}
		}

		err = session.Query(`INSERT INTO audit_logs (log_id, staff_id, role, action, resource, resource_id, details, ip, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			gocql.TimeUUID(), staffID, role, action, resource, resourceID, detailsStr, ip, time.Now()).Exec()
		if err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}
