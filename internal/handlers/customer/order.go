package customer

import (
	"context"
	"net/http"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/cart"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/orders"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GetMyOrders liste les commandes du compte connecté, les plus
// récentes en premier.
func GetMyOrders(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`
		SELECT id, status, order_type, table_number, items, sub_total, service_fee,
		       delivery_fee, tax, total_amount, payment_id, created_at, updated_at
		FROM orders_by_account WHERE account_id = ? LIMIT 50`, accountID).Iter()

	list := []models.Order{}
	var o models.Order
	var itemsJSON string
	for iter.Scan(&o.ID, &o.Status, &o.OrderType, &o.TableNumber, &itemsJSON,
		&o.SubTotal, &o.ServiceFee, &o.DeliveryFee, &o.Tax, &o.TotalAmount,
		&o.PaymentID, &o.CreatedAt, &o.UpdatedAt) {
		o.AccountID = accountID
		o.Items = models.DecodeOrderItems(itemsJSON)
		list = append(list, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

// GetMyOrder récupère une commande appartenant au compte connecté
func GetMyOrder(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

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
	if order.AccountID != accountID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// Reorder recharge le panier avec les articles d'une commande passée.
// Les articles retirés de la carte depuis sont ignorés, les prix sont
// ceux de la carte actuelle.
func Reorder(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

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
	if order.AccountID != accountID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	ctx := context.Background()
	items, err := loadCart(ctx, accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	skipped := []string{}
	for _, oi := range order.Items {
		menuItem, err := cache.GetMenuItemFromCache(oi.ItemID)
		if err != nil || !menuItem.Available {
			skipped = append(skipped, oi.Name)
			continue
		}
		items = cart.Add(items, models.CartItem{
			ItemID:   oi.ItemID,
			Name:     menuItem.Name,
			Price:    menuItem.Price,
			Quantity: oi.Quantity,
			ImageURL: menuItem.ImageURL,
			Notes:    oi.Notes,
		})
	}

	saveCart(ctx, accountID, items, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Commande rechargée dans le panier",
		"items":   items,
		"total":   cart.Total(items),
		"count":   cart.Count(items),
		"skipped": skipped,
	})
}
