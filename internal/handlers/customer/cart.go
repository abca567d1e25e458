package customer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/cart"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CartTTL = 30 * 24 * time.Hour // 30 jours

func cartKey(accountID string) string {
	return "cart:" + accountID
}

// loadCart relit le panier depuis Redis ; panier absent = panier vide
func loadCart(ctx context.Context, accountID string) ([]models.CartItem, error) {
	data, err := database.Redis.Get(ctx, cartKey(accountID)).Result()
	if err != nil || data == "" {
		return []models.CartItem{}, nil
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// saveCart persiste le panier et notifie les connexions WebSocket du
// compte via pub/sub. Un panier vide est supprimé, pas stocké.
func saveCart(ctx context.Context, accountID string, items []models.CartItem, event string) {
	pipe := database.Redis.Pipeline()
	if len(items) == 0 {
		pipe.Del(ctx, cartKey(accountID))
	} else {
		jsonData, _ := json.Marshal(items)
		pipe.Set(ctx, cartKey(accountID), jsonData, CartTTL)
	}
	pipe.Publish(ctx, cartKey(accountID), event)
	pipe.Exec(ctx)
}

func cartResponse(items []models.CartItem) gin.H {
	return gin.H{
		"items": items,
		"total": cart.Total(items),
		"count": cart.Count(items),
	}
}

// GetCart récupère le panier (seulement Redis, jamais ScyllaDB)
func GetCart(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	items, err := loadCart(context.Background(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(items))
}

// AddToCart ajoute un article de la carte au panier
func AddToCart(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input struct {
		ItemID   string `json:"item_id" binding:"required"`
		Quantity int    `json:"quantity" binding:"required,min=1"`
		Notes    string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if _, err := uuid.Parse(input.ItemID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	// Le prix et le nom viennent toujours de la carte, jamais du client
	menuItem, err := cache.GetMenuItemFromCache(input.ItemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}

	if !menuItem.Available {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Article indisponible pour le moment"})
		return
	}

	ctx := context.Background()
	items, err := loadCart(ctx, accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	items = cart.Add(items, models.CartItem{
		ItemID:   input.ItemID,
		Name:     menuItem.Name,
		Price:    menuItem.Price,
		Quantity: input.Quantity,
		ImageURL: menuItem.ImageURL,
		Notes:    input.Notes,
	})

	saveCart(ctx, accountID, items, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Article ajouté au panier",
		"items":   items,
		"total":   cart.Total(items),
		"count":   cart.Count(items),
	})
}

// UpdateCartQuantity met à jour la quantité (0 = supprimer)
func UpdateCartQuantity(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	itemID := c.Param("itemId")

	var input struct {
		Quantity *int `json:"quantity" binding:"required,min=0"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	ctx := context.Background()
	items, err := loadCart(ctx, accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Panier vide"})
		return
	}

	items, found := cart.SetQuantity(items, itemID, *input.Quantity)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable dans le panier"})
		return
	}

	saveCart(ctx, accountID, items, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Quantité mise à jour",
		"items":   items,
		"total":   cart.Total(items),
		"count":   cart.Count(items),
	})
}

// RemoveFromCart supprime un article du panier
func RemoveFromCart(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	itemID := c.Param("itemId")
	ctx := context.Background()

	items, err := loadCart(ctx, accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Panier vide"})
		return
	}

	items, found := cart.Remove(items, itemID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article non trouvé dans le panier"})
		return
	}

	saveCart(ctx, accountID, items, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Article supprimé du panier",
		"items":   items,
		"total":   cart.Total(items),
		"count":   cart.Count(items),
	})
}

// ClearCart vide le panier
func ClearCart(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	saveCart(context.Background(), accountID, nil, "cleared")

	c.JSON(http.StatusOK, gin.H{
		"message": "Panier vidé avec succès",
		"items":   []models.CartItem{},
		"total":   0,
		"count":   0,
	})
}

// SyncCart renvoie l'état courant pour synchroniser app et web
func SyncCart(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	items, err := loadCart(context.Background(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	resp := cartResponse(items)
	resp["synced"] = true
	c.JSON(http.StatusOK, resp)
}
