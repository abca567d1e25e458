package order

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/events"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/orders"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListOrders liste les commandes pour le staff, filtrables par statut
func ListOrders(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var list []models.Order
	var err error
	if status := c.Query("status"); status != "" {
		list, err = orders.ListByStatus(status, limit)
	} else {
		list, err = orders.ListRecent(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

// GetOrder récupère une commande par ID
func GetOrder(c *gin.Context) {
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

	c.JSON(http.StatusOK, order)
}

// UpdateStatus fait avancer une commande dans son cycle de vie.
// Seules les transitions du graphe sont acceptées : pas de retour en
// arrière, pas d'annulation après le début de la préparation.
func UpdateStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut requis"})
		return
	}

	order, err := orders.FindByID(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande non trouvée"})
		return
	}

	if !orders.CanTransition(order.Status, input.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Transition non autorisée",
			"from":  order.Status,
			"to":    input.Status,
		})
		return
	}

	if err := orders.SetStatus(order, input.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	events.Publish(events.KindOrderUpdate, order)
	utils.LogStaffAction(c, "update_status", "order", order.ID.String(), gin.H{"status": input.Status})

	// Notification client, en tâche de fond
	if order.AccountID != "" {
		go func(o models.Order) {
			account, err := cache.GetAccountFromCache(o.AccountID)
			if err != nil || account.Email == "" {
				return
			}
			if err := utils.SendOrderStatusEmail(o, account.Email, o.Status); err != nil {
				log.Println("⚠️ Notification statut non envoyée:", err)
			}
		}(*order)
	}

	log.Printf("📦 Commande %s → %s", order.ID, order.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "order": order})
}

// CancelOrder annule une commande encore annulable
func CancelOrder(c *gin.Context) {
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

	if !orders.CanTransition(order.Status, orders.StatusCancelled) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "La commande ne peut plus être annulée",
			"status": order.Status,
		})
		return
	}

	if err := orders.SetStatus(order, orders.StatusCancelled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur annulation"})
		return
	}

	events.Publish(events.KindOrderUpdate, order)
	utils.LogStaffAction(c, "cancel", "order", order.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Commande annulée", "order": order})
}

// GetETA estime le temps restant selon l'avancement de la commande
func GetETA(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"order_id":    order.ID.String(),
		"status":      order.Status,
		"eta_minutes": orders.ETAMinutes(order.Status),
	})
}

// SyncOrder republie l'état d'une commande sur le canal temps réel,
// pour resynchroniser un écran après une coupure
func SyncOrder(c *gin.Context) {
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

	events.Publish(events.KindOrderUpdate, order)
	c.JSON(http.StatusOK, gin.H{"message": "Commande resynchronisée", "order": order})
}

// SplitOrder découpe une commande en deux : les articles désignés
// partent dans une nouvelle commande, les totaux sont recalculés.
func SplitOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		ItemIDs []string `json:"item_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Liste d'articles requise"})
		return
	}

	original, err := orders.FindByID(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande non trouvée"})
		return
	}
	if !orders.IsActive(original.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Commande déjà clôturée"})
		return
	}

	moved := map[string]bool{}
	for _, id := range input.ItemIDs {
		moved[id] = true
	}

	var kept, split []models.OrderItem
	for _, it := range original.Items {
		if moved[it.ItemID] {
			split = append(split, it)
		} else {
			kept = append(kept, it)
		}
	}
	if len(split) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun article désigné ne figure dans la commande"})
		return
	}
	if len(kept) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Impossible de déplacer tous les articles"})
		return
	}

	now := time.Now()
	newOrder := *original
	newOrder.ID = gocql.TimeUUID()
	newOrder.Items = split
	newOrder.PaymentID = ""
	newOrder.CreatedAt = now
	newOrder.UpdatedAt = now
	applyTotals(&newOrder)

	original.Items = kept
	original.UpdatedAt = now
	applyTotals(original)

	if err := orders.Insert(&newOrder); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande scindée"})
		return
	}
	if err := orders.Insert(original); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande d'origine"})
		return
	}

	events.Publish(events.KindOrderUpdate, original)
	events.Publish(events.KindOrderUpdate, newOrder)
	utils.LogStaffAction(c, "split", "order", original.ID.String(), gin.H{"new_order_id": newOrder.ID.String()})

	c.JSON(http.StatusOK, gin.H{
		"message":   "Commande scindée",
		"original":  original,
		"new_order": newOrder,
	})
}

// MergeOrders fusionne une commande source dans une commande cible
// (même table, additions successives)
func MergeOrders(c *gin.Context) {
	targetID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		SourceID string `json:"source_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande source requis"})
		return
	}

	sourceID, err := gocql.ParseUUID(input.SourceID)
	if err != nil || sourceID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande source invalide"})
		return
	}

	target, err := orders.FindByID(targetID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande cible non trouvée"})
		return
	}
	source, err := orders.FindByID(sourceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande source non trouvée"})
		return
	}
	if !orders.IsActive(target.Status) || !orders.IsActive(source.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Seules des commandes actives peuvent être fusionnées"})
		return
	}

	target.Items = append(target.Items, source.Items...)
	target.UpdatedAt = time.Now()
	applyTotals(target)

	if err := orders.Insert(target); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur fusion"})
		return
	}
	if err := orders.SetStatus(source, orders.StatusCancelled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur clôture commande source"})
		return
	}

	events.Publish(events.KindOrderUpdate, target)
	events.Publish(events.KindOrderUpdate, source)
	utils.LogStaffAction(c, "merge", "order", target.ID.String(), gin.H{"source_id": source.ID.String()})

	c.JSON(http.StatusOK, gin.H{"message": "Commandes fusionnées", "order": target})
}

// applyTotals recalcule les montants après modification des lignes
func applyTotals(o *models.Order) {
	items := make([]models.CartItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, models.CartItem{
			ItemID:   it.ItemID,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}
	totals := orders.ComputeTotals(items, o.OrderType == "delivery")
	o.SubTotal = totals.SubTotal
	o.ServiceFee = totals.ServiceFee
	o.DeliveryFee = totals.DeliveryFee
	o.Tax = totals.Tax
	o.TotalAmount = totals.Total
}
