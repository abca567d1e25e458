package kitchen

import (
	"net/http"
	"sort"

	"mesob_back_end/internal/events"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/orders"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListActiveOrders alimente l'écran cuisine : toutes les commandes en
// cours (pending → ready), les plus anciennes en premier pour que la
// file reflète l'ordre de passage.
func ListActiveOrders(c *gin.Context) {
	active := []models.Order{}
	for _, status := range []string{
		orders.StatusPending, orders.StatusConfirmed,
		orders.StatusPreparing, orders.StatusReady,
	} {
		list, err := orders.ListByStatus(status, 100)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
			return
		}
		active = append(active, list...)
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"orders": active, "count": len(active)})
}

// StartPreparing passe une commande confirmée en préparation
func StartPreparing(c *gin.Context) {
	advance(c, orders.StatusPreparing, "start_preparing")
}

// MarkReady signale qu'une commande est prête à servir
func MarkReady(c *gin.Context) {
	advance(c, orders.StatusReady, "mark_ready")
}

// MarkDelivered clôture une commande servie ou livrée
func MarkDelivered(c *gin.Context) {
	advance(c, orders.StatusDelivered, "mark_delivered")
}

func advance(c *gin.Context, to, action string) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := orders.FindByID(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande non trouvée"})
		return
	}

	if !orders.CanTransition(order.Status, to) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Transition non autorisée",
			"from":  order.Status,
			"to":    to,
		})
		return
	}

	if err := orders.SetStatus(order, to); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	events.Publish(events.KindOrderUpdate, order)
	utils.LogStaffAction(c, action, "order", order.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "order": order})
}
