package admin

import (
	"net/http"
	"strconv"
	"time"

	"mesob_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

type auditLog struct {
	LogID      gocql.UUID `json:"log_id"`
	StaffID    string     `json:"staff_id"`
	Role       string     `json:"role"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resource_id"`
	Details    string     `json:"details,omitempty"`
	IP         string     `json:"ip"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GetAuditLogs renvoie le journal des actions staff, filtrable par
// membre ou par action (manager uniquement)
func GetAuditLogs(c *gin.Context) {
	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT log_id, staff_id, role, action, resource, resource_id,
	          details, ip, created_at FROM audit_logs`
	var args []interface{}

	if staffID := c.Query("staff_id"); staffID != "" {
		query += ` WHERE staff_id = ? ALLOW FILTERING`
		args = append(args, staffID)
	} else if action := c.Query("action"); action != "" {
		query += ` WHERE action = ? ALLOW FILTERING`
		args = append(args, action)
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	iter := session.Query(query, args...).Iter()

	logs := []auditLog{}
	var entry auditLog
	for iter.Scan(&entry.LogID, &entry.StaffID, &entry.Role, &entry.Action, &entry.Resource,
		&entry.ResourceID, &entry.Details, &entry.IP, &entry.CreatedAt) {
		logs = append(logs, entry)
		entry = auditLog{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
